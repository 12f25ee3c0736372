// ==============================================================================
// TRANSFER SUBMITTER - internal/transfer/service.go
// ==============================================================================
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"viralcoin/internal/domain"
	"viralcoin/internal/ledger"
	"viralcoin/internal/wallet"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
	"viralcoin/pkg/validator"
)

// DefaultLogTimeout bounds the background transfer-log POST.
const DefaultLogTimeout = 10 * time.Second

// Options tunes a Service.
type Options struct {
	LogTimeout time.Duration
	Commitment rpc.CommitmentType
}

// Service builds, submits and confirms single-instruction SOL transfers.
type Service struct {
	session   Session
	dialer    ledger.Dialer
	reporter  Reporter
	validator *validator.Validator
	logger    logger.Logger
	opts      Options

	inFlight atomic.Bool
	mu       sync.RWMutex
	last     *domain.TransferOutcome
	reports  sync.WaitGroup
	now      func() time.Time
}

// NewService wires a submitter. reporter may be nil to skip transfer logging.
func NewService(session Session, dialer ledger.Dialer, reporter Reporter, opts Options, log logger.Logger) *Service {
	if opts.LogTimeout <= 0 {
		opts.LogTimeout = DefaultLogTimeout
	}
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentConfirmed
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Service{
		session:   session,
		dialer:    dialer,
		reporter:  reporter,
		validator: validator.New(),
		logger:    log,
		opts:      opts,
		now:       time.Now,
	}
}

// ParseRequest turns raw form text into a TransferRequest.
func ParseRequest(recipient, amountText string) (domain.TransferRequest, error) {
	amountText = strings.TrimSpace(amountText)
	if amountText == "" {
		return domain.TransferRequest{}, errors.Wrap(errors.ErrInvalidInput, "amount is empty")
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return domain.TransferRequest{}, errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("amount %q is not a number", amountText))
	}
	return domain.TransferRequest{
		Recipient:        strings.TrimSpace(recipient),
		AmountMajorUnits: amount,
	}, nil
}

// Lamports converts SOL to lamports, rounding half away from zero.
func Lamports(amount decimal.Decimal) (uint64, error) {
	lamports := amount.Shift(domain.SOLDecimals).Round(0)
	if !lamports.IsPositive() {
		return 0, errors.Wrap(errors.ErrInvalidInput, "amount must be positive")
	}
	if !lamports.BigInt().IsUint64() {
		return 0, errors.Wrap(errors.ErrInvalidInput, "amount too large")
	}
	return lamports.BigInt().Uint64(), nil
}

// SubmitText parses the raw form fields and submits them.
func (s *Service) SubmitText(ctx context.Context, recipient, amountText string) (*domain.TransferOutcome, error) {
	req, err := ParseRequest(recipient, amountText)
	if err == nil {
		return s.Submit(ctx, req)
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, errors.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	// Wallet preconditions outrank a malformed amount.
	if serr := s.sessionErr(); serr != nil {
		err = serr
	}
	return s.finish(s.session.Network(), "", err), err
}

func (s *Service) sessionErr() error {
	if s.session.Provider() == nil {
		return errors.ErrProviderMissing
	}
	if _, ok := s.session.Address(); !ok {
		return errors.ErrNotConnected
	}
	return nil
}

// Submit sends req from the connected wallet. Every call except one rejected with
// ErrSubmissionInFlight replaces LastOutcome. The returned outcome is never nil
// in that case, and err is set whenever outcome.Success is false.
func (s *Service) Submit(ctx context.Context, req domain.TransferRequest) (*domain.TransferOutcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("Transfer rejected, another one is in flight", nil)
		return nil, errors.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	network := s.session.Network()
	sig, err := s.submit(ctx, req, network)
	outcome := s.finish(network, sig, err)
	return outcome, err
}

// LastOutcome returns the most recent outcome, or nil before the first submission.
func (s *Service) LastOutcome() *domain.TransferOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	out := *s.last
	return &out
}

// InFlight reports whether a submission is running.
func (s *Service) InFlight() bool {
	return s.inFlight.Load()
}

// Wait blocks until background transfer logs have finished.
func (s *Service) Wait() {
	s.reports.Wait()
}

func (s *Service) submit(ctx context.Context, req domain.TransferRequest, network domain.Network) (string, error) {
	// Preconditions, no network access before these pass
	provider := s.session.Provider()
	if provider == nil {
		return "", errors.ErrProviderMissing
	}
	from, ok := s.session.Address()
	if !ok {
		return "", errors.ErrNotConnected
	}
	if strings.TrimSpace(req.Recipient) == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "recipient is empty")
	}
	if fields := s.validator.ValidateStructured(req); fields != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, describeFields(fields))
	}
	lamports, err := Lamports(req.AmountMajorUnits)
	if err != nil {
		return "", err
	}
	to, err := solana.PublicKeyFromBase58(strings.TrimSpace(req.Recipient))
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, "recipient is not a valid address")
	}

	// 1. Resolve RPC client for the selected network
	client, err := s.dialer.Client(network)
	if err != nil {
		return "", errors.Mark(errors.ErrRPCFailure, err)
	}

	// 2. Latest blockhash
	ref, err := client.LatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	// 3. Build single transfer instruction, fee payer = sender
	tx, err := BuildTransaction(from, to, lamports, ref.Blockhash)
	if err != nil {
		return "", errors.Wrap(err, "build transaction")
	}

	// 4. Provider signs and broadcasts on the cluster the blockhash came from
	sig, err := provider.SignAndSendTransaction(wallet.WithBroadcaster(ctx, client), tx)
	if err != nil {
		if errors.KindOf(err) == errors.KindRPCFailure {
			return "", err
		}
		return "", errors.Mark(errors.ErrProviderRejected, err)
	}

	s.logger.Info("Transfer broadcast", map[string]interface{}{
		"signature": sig.String(),
		"from":      from.String(),
		"to":        to.String(),
		"lamports":  lamports,
		"network":   string(network),
	})

	// 5. Confirmation
	if err := client.ConfirmTransaction(ctx, sig, ref, s.opts.Commitment); err != nil {
		return sig.String(), err
	}

	// 6. Best-effort log
	s.report(domain.TransferLog{
		FromPubkey: from.String(),
		ToPubkey:   to.String(),
		AmountSOL:  json.Number(req.AmountMajorUnits.String()),
		Signature:  sig.String(),
		Network:    network,
	})

	return sig.String(), nil
}

// BuildTransaction returns an unsigned transaction with exactly one system transfer.
func BuildTransaction(from, to solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	return solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
}

func (s *Service) finish(network domain.Network, sig string, err error) *domain.TransferOutcome {
	outcome := &domain.TransferOutcome{
		Success:     err == nil,
		Network:     network,
		CompletedAt: s.now().UTC(),
	}
	if err == nil {
		outcome.Signature = sig
		outcome.ExplorerURL = domain.ExplorerURL(sig, network)
		s.logger.Info("Transfer confirmed", map[string]interface{}{"signature": sig, "network": string(network)})
	} else {
		outcome.ErrorMessage = errors.UserMessage(err)
		fields := map[string]interface{}{
			"error":   err.Error(),
			"kind":    string(errors.KindOf(err)),
			"network": string(network),
		}
		if sig != "" {
			fields["signature"] = sig
		}
		s.logger.Error("Transfer failed", fields)
	}

	s.mu.Lock()
	s.last = outcome
	s.mu.Unlock()

	out := *outcome
	return &out
}

// report posts record on its own goroutine; failures only reach the debug log.
func (s *Service) report(record domain.TransferLog) {
	if s.reporter == nil {
		return
	}

	s.reports.Add(1)
	go func() {
		defer s.reports.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.LogTimeout)
		defer cancel()

		if err := s.reporter.LogTransfer(ctx, record); err != nil {
			s.logger.Debug("Transfer log discarded", map[string]interface{}{
				"signature": record.Signature,
				"error":     err.Error(),
			})
		}
	}()
}

func describeFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, name := range []string{"Recipient", "AmountMajorUnits"} {
		if msg, ok := fields[name]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", name, msg))
		}
	}
	if len(parts) == 0 {
		for name, msg := range fields {
			parts = append(parts, fmt.Sprintf("%s: %s", name, msg))
		}
	}
	return strings.Join(parts, "; ")
}
