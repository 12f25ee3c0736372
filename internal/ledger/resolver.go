package ledger

import (
	"fmt"
	"sync"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// DefaultEndpoints are the public RPC nodes per cluster.
var DefaultEndpoints = map[domain.Network]string{
	domain.NetworkMainnet: "https://api.mainnet-beta.solana.com",
	domain.NetworkDevnet:  "https://api.devnet.solana.com",
	domain.NetworkTestnet: "https://api.testnet.solana.com",
}

// Resolver maps networks to RPC endpoints and hands out one client per endpoint.
type Resolver struct {
	mu        sync.Mutex
	endpoints map[domain.Network]string
	clients   map[domain.Network]*RPCClient
	opts      Options
	logger    logger.Logger
}

// NewResolver applies overrides on top of DefaultEndpoints.
func NewResolver(overrides map[domain.Network]string, opts Options, log logger.Logger) *Resolver {
	endpoints := make(map[domain.Network]string, len(DefaultEndpoints))
	for n, url := range DefaultEndpoints {
		endpoints[n] = url
	}
	for n, url := range overrides {
		if url != "" {
			endpoints[n] = url
		}
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Resolver{
		endpoints: endpoints,
		clients:   make(map[domain.Network]*RPCClient),
		opts:      opts,
		logger:    log,
	}
}

// Endpoint returns the RPC URL for network.
func (r *Resolver) Endpoint(network domain.Network) (string, error) {
	url, ok := r.endpoints[network]
	if !ok {
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownNetwork, network)
	}
	return url, nil
}

// Client returns the (cached) RPC client for network.
func (r *Resolver) Client(network domain.Network) (Client, error) {
	url, err := r.Endpoint(network)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[network]; ok {
		return c, nil
	}
	c := NewRPCClient(url, r.opts, r.logger)
	r.clients[network] = c
	r.logger.Debug("RPC client created", map[string]interface{}{
		"network":  string(network),
		"endpoint": url,
	})
	return c, nil
}

var _ Dialer = (*Resolver)(nil)
