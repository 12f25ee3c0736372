package transfer

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"viralcoin/internal/domain"
	"viralcoin/internal/wallet"
)

// Session is the part of the wallet manager the submitter reads.
type Session interface {
	Provider() wallet.Provider
	Address() (solana.PublicKey, bool)
	Network() domain.Network
}

// Reporter records confirmed transfers with the backend.
type Reporter interface {
	LogTransfer(ctx context.Context, record domain.TransferLog) error
}
