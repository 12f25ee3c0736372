package handler

import (
	"net/http"
	"time"

	"viralcoin/internal/domain"
	"viralcoin/pkg/logger"
)

// SystemHandler serves health information.
type SystemHandler struct {
	wallet    WalletService
	backend   string
	logger    logger.Logger
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(wallet WalletService, backendURL string, log logger.Logger) *SystemHandler {
	return &SystemHandler{
		wallet:    wallet,
		backend:   backendURL,
		logger:    log,
		startTime: time.Now(),
	}
}

type HealthResponse struct {
	Status  string               `json:"status"`
	Service string               `json:"service"`
	Uptime  float64              `json:"uptime_seconds"`
	Backend string               `json:"backend"`
	Wallet  domain.WalletSession `json:"wallet"`
}

// Health reports liveness plus the wallet session.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "miniapps",
		Uptime:  time.Since(h.startTime).Seconds(),
		Backend: h.backend,
		Wallet:  h.wallet.Session(),
	}, h.logger)
}
