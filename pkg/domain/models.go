// ==============================================================================
// DOMAIN MODELS - pkg/domain/models.go
// ==============================================================================
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Network identifies a Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet-beta"
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
)

// DefaultNetwork is selected when nothing else is configured.
const DefaultNetwork = NetworkMainnet

// Networks lists the selectable clusters in display order.
var Networks = []Network{NetworkMainnet, NetworkDevnet, NetworkTestnet}

// ParseNetwork accepts the cluster names plus the short main/dev/test aliases.
func ParseNetwork(s string) (Network, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet-beta", "mainnet", "main":
		return NetworkMainnet, true
	case "devnet", "dev":
		return NetworkDevnet, true
	case "testnet", "test":
		return NetworkTestnet, true
	}
	return "", false
}

func (n Network) Valid() bool {
	p, ok := ParseNetwork(string(n))
	return ok && p == n
}

// Label is the human name shown in the network selector.
func (n Network) Label() string {
	switch n {
	case NetworkMainnet:
		return "Mainnet"
	case NetworkDevnet:
		return "Devnet"
	case NetworkTestnet:
		return "Testnet"
	}
	return string(n)
}

// SOLDecimals is the number of decimal places between SOL and lamports.
const SOLDecimals = 9

// SessionState tracks the wallet connection lifecycle.
type SessionState string

const (
	SessionUninitialized SessionState = "uninitialized"
	SessionDetecting     SessionState = "detecting"
	SessionNoProvider    SessionState = "no_provider"
	SessionDisconnected  SessionState = "disconnected"
	SessionConnected     SessionState = "connected"
)

// WalletSession is a point-in-time snapshot of the connection manager.
type WalletSession struct {
	State       SessionState `json:"state"`
	HasProvider bool         `json:"has_provider"`
	Provider    string       `json:"provider,omitempty"`
	Address     string       `json:"address,omitempty"`
	Network     Network      `json:"network"`
}

// Connected reports whether a provider and an address are both present.
func (s WalletSession) Connected() bool {
	return s.HasProvider && s.Address != ""
}

// TransferRequest is a parsed, not yet validated, user transfer.
type TransferRequest struct {
	Recipient        string          `json:"to" validate:"required,solana_pubkey"`
	AmountMajorUnits decimal.Decimal `json:"amount" validate:"gt=0"`
}

// TransferOutcome is the single result of one submission attempt.
type TransferOutcome struct {
	Success      bool      `json:"ok"`
	Signature    string    `json:"signature,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	Network      Network   `json:"network,omitempty"`
	ExplorerURL  string    `json:"explorer_url,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}

// TransferLog is the record posted to the backend after a confirmed transfer.
type TransferLog struct {
	FromPubkey string      `json:"from_pubkey"`
	ToPubkey   string      `json:"to_pubkey"`
	AmountSOL  json.Number `json:"amount_sol"`
	Signature  string      `json:"signature"`
	Network    Network     `json:"network"`
}

// ExplorerURL links a signature on Solscan, adding the cluster off mainnet.
func ExplorerURL(signature string, network Network) string {
	url := "https://solscan.io/tx/" + signature
	if network != NetworkMainnet {
		url += "?cluster=" + string(network)
	}
	return url
}

// EntryID accepts either a JSON string or a JSON number.
type EntryID string

func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EntryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	*id = EntryID(n.String())
	return nil
}

// DirectoryEntry is one mini-app listed by the backend.
type DirectoryEntry struct {
	ID          EntryID  `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IconURL     string   `json:"icon,omitempty"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags,omitempty"`
}

// DirectoryResponse is the envelope returned by GET /api/miniapps.
type DirectoryResponse struct {
	OK    bool             `json:"ok"`
	Items []DirectoryEntry `json:"items,omitempty"`
}
