package app

import (
	"context"
	"io"
	"net/http"
	"os"

	"viralcoin/internal/backend"
	"viralcoin/internal/handler"
	"viralcoin/internal/ledger"
	"viralcoin/internal/middleware"
	"viralcoin/internal/provider"
	"viralcoin/internal/transfer"
	"viralcoin/internal/wallet"
	"viralcoin/pkg/config"
	"viralcoin/pkg/logger"
)

// Options carries process-level inputs that do not come from the environment.
type Options struct {
	// Stdin and Prompt are used for approval prompts unless auto-approve is set.
	Stdin  io.Reader
	Prompt io.Writer
	// Approver overrides the prompt and the auto-approve setting.
	Approver provider.Approver
}

// Wire bundles the services built from config.
type Wire struct {
	Config    *config.Config
	Logger    logger.Logger
	Ledger    *ledger.Resolver
	Wallet    *wallet.Manager
	Backend   *backend.Client
	Transfers *transfer.Service
	Limiter   *middleware.RateLimiter
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg *config.Config, log logger.Logger, opts Options) (*Wire, error) {
	if err := cfg.ValidateCore(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	resolver := ledger.NewResolver(cfg.RPCOverrides(), ledger.Options{
		ConfirmTimeout: cfg.Solana.ConfirmTimeout,
		PollInterval:   cfg.Solana.ConfirmPollInterval,
	}, log)

	approver := opts.Approver
	if approver == nil {
		if cfg.Wallet.AutoApprove {
			approver = provider.AutoApprove
		} else {
			in, out := opts.Stdin, opts.Prompt
			if in == nil {
				in = os.Stdin
			}
			if out == nil {
				out = os.Stderr
			}
			approver = provider.PromptApprover(in, out)
		}
	}

	// Transfers pin their own cluster; the default covers direct provider use.
	var manager *wallet.Manager
	detector := provider.Detector(cfg.Wallet.KeypairPath, provider.Options{
		Trusted:  cfg.Wallet.Trusted,
		Approver: approver,
		Sender: func() (provider.TransactionSender, error) {
			c, err := resolver.Client(manager.Network())
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Logger: log,
	})
	manager = wallet.NewManager(detector, cfg.Network(), log)

	backendClient := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, log)

	transfers := transfer.NewService(manager, resolver, backendClient, transfer.Options{
		LogTimeout: cfg.Backend.TransferLogTimeout,
	}, log)

	return &Wire{
		Config:    cfg,
		Logger:    log,
		Ledger:    resolver,
		Wallet:    manager,
		Backend:   backendClient,
		Transfers: transfers,
		Limiter:   middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, log),
	}, nil
}

// Init runs provider detection and the silent reconnect.
func (w *Wire) Init(ctx context.Context) {
	w.Wallet.Init(ctx)
}

// Handler builds the HTTP surface.
func (w *Wire) Handler() http.Handler {
	return handler.NewRouter(handler.RouterConfig{
		Wallet:         w.Wallet,
		Transfers:      w.Transfers,
		Apps:           w.Backend,
		BackendURL:     w.Backend.BaseURL(),
		AllowedOrigins: w.Config.Server.AllowedOrigins,
		Limiter:        w.Limiter,
		Logger:         w.Logger,
	})
}

// Lock locks the keyfile wallet, if one was detected. The manager sees the
// resulting disconnect event like any other.
func (w *Wire) Lock() bool {
	p, ok := w.Wallet.Provider().(*provider.KeyfileProvider)
	if !ok {
		return false
	}
	p.Lock()
	w.Logger.Info("Keypair wallet locked", map[string]interface{}{"address": p.PublicKey().String()})
	return true
}

// Close waits for pending transfer logs and detaches from the provider.
func (w *Wire) Close() {
	w.Transfers.Wait()
	w.Wallet.Close()
}
