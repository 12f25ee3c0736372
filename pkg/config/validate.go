// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"viralcoin/pkg/domain"
)

// ValidateCore ensures critical configuration is present.
func (c *Config) ValidateCore() error {
	var missing []string

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "BACKEND_URL")
	}
	if _, ok := domain.ParseNetwork(c.Solana.Network); !ok {
		missing = append(missing, "SOLANA_NETWORK")
	}
	if port, err := strconv.Atoi(strings.TrimSpace(c.Server.Port)); err != nil || port <= 0 || port > 65535 {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Solana.ConfirmPollInterval <= 0 {
		missing = append(missing, "CONFIRM_POLL_INTERVAL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing or invalid configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Network returns the configured cluster, falling back to the default.
func (c *Config) Network() domain.Network {
	if n, ok := domain.ParseNetwork(c.Solana.Network); ok {
		return n
	}
	return domain.DefaultNetwork
}

// RPCOverrides returns the per-network RPC endpoints set in the environment.
func (c *Config) RPCOverrides() map[domain.Network]string {
	out := make(map[domain.Network]string)
	if c.Solana.MainnetRPC != "" {
		out[domain.NetworkMainnet] = c.Solana.MainnetRPC
	}
	if c.Solana.DevnetRPC != "" {
		out[domain.NetworkDevnet] = c.Solana.DevnetRPC
	}
	if c.Solana.TestnetRPC != "" {
		out[domain.NetworkTestnet] = c.Solana.TestnetRPC
	}
	return out
}
