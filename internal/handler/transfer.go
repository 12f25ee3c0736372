package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// TransferService is the submitter surface used over HTTP.
type TransferService interface {
	SubmitText(ctx context.Context, recipient, amountText string) (*domain.TransferOutcome, error)
	LastOutcome() *domain.TransferOutcome
	InFlight() bool
}

// TransferHandler manages transfer endpoints.
type TransferHandler struct {
	service TransferService
	logger  logger.Logger
}

// NewTransferHandler creates a TransferHandler.
func NewTransferHandler(service TransferService, log logger.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		logger:  log,
	}
}

// SubmitTransferRequest is the form payload. Amount may be a JSON string or number.
type SubmitTransferRequest struct {
	To     string          `json:"to"`
	Amount json.RawMessage `json:"amount"`
}

// Submit sends a transfer and returns its outcome.
func (h *TransferHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitTransferRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if err == io.EOF {
			h.respondError(w, http.StatusBadRequest, "Request body is required")
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.service.SubmitText(r.Context(), req.To, amountText(req.Amount))
	if err != nil {
		if outcome == nil || errors.Is(err, errors.ErrSubmissionInFlight) {
			writeError(w, err, h.logger)
			return
		}
		h.respondJSON(w, StatusFor(err), outcome)
		return
	}

	h.respondJSON(w, http.StatusOK, outcome)
}

// Last returns the most recent outcome, or 204 before the first submission.
func (h *TransferHandler) Last(w http.ResponseWriter, r *http.Request) {
	outcome := h.service.LastOutcome()
	if outcome == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.respondJSON(w, http.StatusOK, outcome)
}

func amountText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}

func (h *TransferHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data, h.logger)
}

func (h *TransferHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
