// Package handler provides HTTP handlers for the mini-app wallet front-end.
package handler

import (
	"encoding/json"
	"net/http"

	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// StatusFor maps an error kind to the HTTP status returned to the page.
func StatusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindProviderMissing:
		return http.StatusServiceUnavailable
	case errors.KindNotConnected:
		return http.StatusConflict
	case errors.KindInvalidInput:
		return http.StatusBadRequest
	case errors.KindProviderRejected:
		return http.StatusForbidden
	case errors.KindInFlight:
		return http.StatusTooManyRequests
	case errors.KindRPCFailure, errors.KindDirectoryFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("json encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, err error, log logger.Logger) {
	writeJSON(w, StatusFor(err), map[string]string{
		"error": errors.UserMessage(err),
		"kind":  string(errors.KindOf(err)),
	}, log)
}
