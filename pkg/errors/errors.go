// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Wallet session errors
	ErrProviderMissing  = errors.New("no Solana wallet found, install a wallet to continue")
	ErrNotConnected     = errors.New("connect your wallet")
	ErrProviderRejected = errors.New("wallet rejected the request")

	// Transfer errors
	ErrInvalidInput       = errors.New("enter a valid recipient and amount")
	ErrSubmissionInFlight = errors.New("a transfer is already in progress")

	// Ledger errors
	ErrRPCFailure       = errors.New("solana rpc failure")
	ErrBlockhashExpired = errors.New("blockhash expired before confirmation")

	// Directory errors
	ErrDirectoryFetchFailure = errors.New("failed to load apps")

	// Configuration errors
	ErrUnknownNetwork = errors.New("unknown network")
)

// Kind names an error class for API responses and logs.
type Kind string

const (
	KindProviderMissing  Kind = "provider_missing"
	KindNotConnected     Kind = "not_connected"
	KindInvalidInput     Kind = "invalid_input"
	KindProviderRejected Kind = "provider_rejected"
	KindRPCFailure       Kind = "rpc_failure"
	KindDirectoryFailure Kind = "directory_fetch_failure"
	KindInFlight         Kind = "submission_in_flight"
	KindInternal         Kind = "internal"
)

var kinds = []struct {
	target error
	kind   Kind
}{
	{ErrProviderMissing, KindProviderMissing},
	{ErrNotConnected, KindNotConnected},
	{ErrInvalidInput, KindInvalidInput},
	{ErrUnknownNetwork, KindInvalidInput},
	{ErrProviderRejected, KindProviderRejected},
	{ErrRPCFailure, KindRPCFailure},
	{ErrBlockhashExpired, KindRPCFailure},
	{ErrDirectoryFetchFailure, KindDirectoryFailure},
	{ErrSubmissionInFlight, KindInFlight},
}

// KindOf classifies err by the first sentinel it wraps.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return KindInternal
}

// UserMessage converts err into the string shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Mark attaches sentinel to cause so both match errors.Is.
func Mark(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Is is re-exported so callers importing this package need not alias the stdlib one.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
