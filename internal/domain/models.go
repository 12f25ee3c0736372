// Package domain re-exports core domain types so internal code can import
// `viralcoin/internal/domain` while using definitions from `viralcoin/pkg/domain`.
package domain

import pkg "viralcoin/pkg/domain"

// Network identifies a Solana cluster.
type Network = pkg.Network

// SessionState tracks the wallet connection lifecycle.
type SessionState = pkg.SessionState

// WalletSession is a snapshot of the wallet connection.
type WalletSession = pkg.WalletSession

// TransferRequest is a parsed user transfer.
type TransferRequest = pkg.TransferRequest

// TransferOutcome is the result of one submission.
type TransferOutcome = pkg.TransferOutcome

// TransferLog is the record posted to the backend.
type TransferLog = pkg.TransferLog

// EntryID identifies a mini-app.
type EntryID = pkg.EntryID

// DirectoryEntry is one mini-app.
type DirectoryEntry = pkg.DirectoryEntry

// DirectoryResponse is the mini-app list envelope.
type DirectoryResponse = pkg.DirectoryResponse

// Re-exported networks.
const (
	NetworkMainnet = pkg.NetworkMainnet
	NetworkDevnet  = pkg.NetworkDevnet
	NetworkTestnet = pkg.NetworkTestnet
	DefaultNetwork = pkg.DefaultNetwork
)

// Re-exported session states.
const (
	SessionUninitialized = pkg.SessionUninitialized
	SessionDetecting     = pkg.SessionDetecting
	SessionNoProvider    = pkg.SessionNoProvider
	SessionDisconnected  = pkg.SessionDisconnected
	SessionConnected     = pkg.SessionConnected
)

// SOLDecimals is re-exported from pkg/domain.
const SOLDecimals = pkg.SOLDecimals

// Networks lists the selectable clusters.
var Networks = pkg.Networks

// ParseNetwork parses a cluster name or alias.
func ParseNetwork(s string) (Network, bool) { return pkg.ParseNetwork(s) }

// ExplorerURL links a signature on Solscan.
func ExplorerURL(signature string, network Network) string {
	return pkg.ExplorerURL(signature, network)
}
