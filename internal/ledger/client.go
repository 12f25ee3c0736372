// Package ledger wraps the Solana JSON-RPC calls the transfer flow depends on.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// DefaultConfirmTimeout bounds ConfirmTransaction when the caller sets none.
const DefaultConfirmTimeout = 60 * time.Second

// DefaultPollInterval is the default interval for polling signature status.
const DefaultPollInterval = 2 * time.Second

// BlockRef is a recent blockhash plus the last block height at which it is valid.
type BlockRef struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

// Client is the ledger surface used by the transfer submitter and the wallet provider.
type Client interface {
	LatestBlockhash(ctx context.Context) (BlockRef, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature, ref BlockRef, commitment rpc.CommitmentType) error
}

// Dialer resolves a Client for a network.
type Dialer interface {
	Client(network domain.Network) (Client, error)
}

// Options tunes an RPCClient.
type Options struct {
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// RPCClient implements Client on top of solana-go's rpc package.
type RPCClient struct {
	rpc          *rpc.Client
	endpoint     string
	timeout      time.Duration
	pollInterval time.Duration
	logger       logger.Logger
}

// NewRPCClient creates a client for a single endpoint.
func NewRPCClient(endpoint string, opts Options, log logger.Logger) *RPCClient {
	timeout := opts.ConfirmTimeout
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &RPCClient{
		rpc:          rpc.New(endpoint),
		endpoint:     endpoint,
		timeout:      timeout,
		pollInterval: poll,
		logger:       log,
	}
}

// Endpoint returns the RPC URL the client talks to.
func (c *RPCClient) Endpoint() string {
	return c.endpoint
}

// LatestBlockhash fetches a recent blockhash at finalized commitment.
func (c *RPCClient) LatestBlockhash(ctx context.Context) (BlockRef, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return BlockRef{}, errors.Mark(errors.ErrRPCFailure, fmt.Errorf("get latest blockhash: %w", err))
	}
	if out == nil || out.Value == nil {
		return BlockRef{}, errors.Mark(errors.ErrRPCFailure, fmt.Errorf("get latest blockhash: empty result"))
	}

	return BlockRef{
		Blockhash:            out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

// SendTransaction broadcasts an already signed transaction.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, errors.Mark(errors.ErrRPCFailure, fmt.Errorf("send transaction: %w", err))
	}
	return sig, nil
}

// ConfirmTransaction polls signature status until it reaches commitment.
// It gives up when the blockhash in ref expires, the transaction fails on chain,
// or the client's confirm timeout elapses.
func (c *RPCClient) ConfirmTransaction(ctx context.Context, sig solana.Signature, ref BlockRef, commitment rpc.CommitmentType) error {
	wctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		done, err := c.checkSignature(wctx, sig, ref, commitment)
		if done || err != nil {
			return err
		}

		select {
		case <-wctx.Done():
			return errors.Mark(errors.ErrRPCFailure, fmt.Errorf("confirm %s: %w", sig, wctx.Err()))
		case <-ticker.C:
		}
	}
}

func (c *RPCClient) checkSignature(ctx context.Context, sig solana.Signature, ref BlockRef, commitment rpc.CommitmentType) (bool, error) {
	out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, errors.Mark(errors.ErrRPCFailure, fmt.Errorf("get signature status: %w", err))
	}

	var status *rpc.SignatureStatusesResult
	if out != nil && len(out.Value) > 0 {
		status = out.Value[0]
	}

	if status != nil {
		if status.Err != nil {
			return false, errors.Mark(errors.ErrRPCFailure, fmt.Errorf("transaction %s failed: %v", sig, status.Err))
		}
		if Reached(status.ConfirmationStatus, commitment) {
			c.logger.Debug("Signature confirmed", map[string]interface{}{
				"signature": sig.String(),
				"status":    string(status.ConfirmationStatus),
				"slot":      status.Slot,
			})
			return true, nil
		}
		return false, nil
	}

	if ref.LastValidBlockHeight == 0 {
		return false, nil
	}
	height, err := c.rpc.GetBlockHeight(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, errors.Mark(errors.ErrRPCFailure, fmt.Errorf("get block height: %w", err))
	}
	if height > ref.LastValidBlockHeight {
		return false, errors.Mark(errors.ErrRPCFailure, errors.ErrBlockhashExpired)
	}
	return false, nil
}

// Reached reports whether status satisfies the requested commitment.
func Reached(status rpc.ConfirmationStatusType, commitment rpc.CommitmentType) bool {
	return statusRank(status) >= commitmentRank(commitment)
}

func statusRank(status rpc.ConfirmationStatusType) int {
	switch status {
	case rpc.ConfirmationStatusProcessed:
		return 1
	case rpc.ConfirmationStatusConfirmed:
		return 2
	case rpc.ConfirmationStatusFinalized:
		return 3
	}
	return 0
}

func commitmentRank(commitment rpc.CommitmentType) int {
	switch commitment {
	case rpc.CommitmentProcessed:
		return 1
	case rpc.CommitmentFinalized:
		return 3
	}
	return 2
}

var _ Client = (*RPCClient)(nil)
