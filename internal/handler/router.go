package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"viralcoin/internal/directory"
	"viralcoin/internal/middleware"
	"viralcoin/pkg/logger"
)

// RouterConfig carries the services the HTTP surface is built from.
type RouterConfig struct {
	Wallet         WalletService
	Transfers      TransferService
	Apps           directory.Source
	BackendURL     string
	AllowedOrigins []string
	// Limiter guards connect and transfer submission. Nil disables limiting.
	Limiter *middleware.RateLimiter
	Logger  logger.Logger
}

// NewRouter registers every route behind the global middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	walletHandler := NewWalletHandler(cfg.Wallet, log)
	transferHandler := NewTransferHandler(cfg.Transfers, log)
	appsHandler := NewMiniAppsHandler(cfg.Apps, log)
	systemHandler := NewSystemHandler(cfg.Wallet, cfg.BackendURL, log)
	pageHandler := NewPageHandler(cfg.Wallet, cfg.Transfers, cfg.Apps, log)

	limit := func(h http.HandlerFunc) http.Handler {
		if cfg.Limiter == nil {
			return h
		}
		return cfg.Limiter.Limit(h)
	}

	r := mux.NewRouter()

	r.HandleFunc("/", pageHandler.Index).Methods("GET")
	r.PathPrefix("/static/").Handler(Static()).Methods("GET")
	r.HandleFunc("/health", systemHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/wallet", walletHandler.GetSession).Methods("GET")
	api.Handle("/wallet/connect", limit(walletHandler.Connect)).Methods("POST")
	api.HandleFunc("/wallet/disconnect", walletHandler.Disconnect).Methods("POST")
	api.HandleFunc("/wallet/network", walletHandler.SetNetwork).Methods("PUT")
	api.HandleFunc("/wallet/events", walletHandler.Events).Methods("GET")

	api.Handle("/transfers", limit(transferHandler.Submit)).Methods("POST")
	api.HandleFunc("/transfers/last", transferHandler.Last).Methods("GET")

	api.HandleFunc("/miniapps", appsHandler.List).Methods("GET")

	// CORS sits outside the router so preflights never hit a 405.
	var h http.Handler = r
	h = middleware.BodyLimit(1 << 20)(h)
	h = middleware.NewLoggingMiddleware(log).Log(h)
	h = middleware.CorrelationID(h)
	h = middleware.Recovery(log)(h)
	h = middleware.SecurityHeaders(h)
	h = middleware.CORS(cfg.AllowedOrigins)(h)
	return h
}
