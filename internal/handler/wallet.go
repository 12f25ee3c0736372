package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gagliardetto/solana-go"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// WalletService is the connection manager surface used over HTTP.
type WalletService interface {
	Session() domain.WalletSession
	Connect(ctx context.Context) (solana.PublicKey, error)
	Disconnect(ctx context.Context) error
	SetNetwork(network domain.Network) error
	Watch() (<-chan domain.WalletSession, func())
}

// WalletHandler manages wallet endpoints.
type WalletHandler struct {
	service WalletService
	logger  logger.Logger
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(service WalletService, log logger.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		logger:  log,
	}
}

type setNetworkRequest struct {
	Network string `json:"network"`
}

// GetSession returns the current wallet session.
func (h *WalletHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Session())
}

// Connect asks the provider for a connection.
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Connect(r.Context()); err != nil {
		h.logger.Warn("Wallet connect failed", map[string]interface{}{"error": err.Error()})
		writeError(w, err, h.logger)
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.Session())
}

// Disconnect closes the wallet connection.
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Disconnect(r.Context()); err != nil {
		h.logger.Error("Wallet disconnect failed", map[string]interface{}{"error": err.Error()})
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.Session())
}

// SetNetwork changes the selected cluster.
func (h *WalletHandler) SetNetwork(w http.ResponseWriter, r *http.Request) {
	var req setNetworkRequest

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

	network, ok := domain.ParseNetwork(req.Network)
	if !ok {
		writeError(w, errors.Wrap(errors.ErrUnknownNetwork, req.Network), h.logger)
		return
	}
	if err := h.service.SetNetwork(network); err != nil {
		writeError(w, err, h.logger)
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.Session())
}

func (h *WalletHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data, h.logger)
}

func (h *WalletHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
