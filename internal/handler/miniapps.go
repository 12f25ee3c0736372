package handler

import (
	"net/http"

	"viralcoin/internal/directory"
	"viralcoin/pkg/logger"
)

// MiniAppsHandler serves the mini-app directory.
type MiniAppsHandler struct {
	source directory.Source
	logger logger.Logger
}

// NewMiniAppsHandler creates a MiniAppsHandler.
func NewMiniAppsHandler(source directory.Source, log logger.Logger) *MiniAppsHandler {
	return &MiniAppsHandler{
		source: source,
		logger: log,
	}
}

// List runs one fetch cycle and returns the view. Load failures are part of the
// view, so the status is always 200.
func (h *MiniAppsHandler) List(w http.ResponseWriter, r *http.Request) {
	view := directory.Fetch(r.Context(), h.source, h.logger)
	writeJSON(w, http.StatusOK, view, h.logger)
}
