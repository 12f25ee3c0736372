// ===== PROVIDER - internal/provider/keyfile.go =====
// Package provider implements wallet.Provider on top of a local Solana keypair file.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go"

	"viralcoin/internal/wallet"
	"viralcoin/pkg/logger"
)

// Name is reported to the connection manager.
const Name = "keyfile"

var (
	// ErrNotTrusted is returned by a silent connect when the app was never approved.
	ErrNotTrusted = errors.New("app is not trusted by the wallet")
	// ErrUserRejected is returned when the approver refuses a request.
	ErrUserRejected = errors.New("user rejected the request")
	// ErrLocked is returned when signing without an open connection.
	ErrLocked = errors.New("wallet is locked")
)

// RequestKind is what the approver is asked to allow.
type RequestKind string

const (
	RequestConnect RequestKind = "connect"
	RequestSign    RequestKind = "sign"
)

// Request describes a pending approval.
type Request struct {
	Kind        RequestKind
	PublicKey   solana.PublicKey
	Transaction *solana.Transaction
}

// Approver decides whether a connect or sign request may proceed.
type Approver func(ctx context.Context, req Request) bool

// TransactionSender broadcasts a signed transaction.
type TransactionSender interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// SenderFunc returns the sender for the currently selected network.
type SenderFunc func() (TransactionSender, error)

// Options configures a KeyfileProvider.
type Options struct {
	// Trusted lets OnlyIfTrusted connects succeed without prompting.
	Trusted bool
	// Approver is asked for explicit connects and every signature. Nil approves everything.
	Approver Approver
	// Sender is used when the caller did not pin a broadcaster with wallet.WithBroadcaster.
	Sender SenderFunc
	Logger logger.Logger
}

// KeyfileProvider is a wallet backed by a solana-keygen JSON keypair.
type KeyfileProvider struct {
	key  solana.PrivateKey
	opts Options

	mu        sync.Mutex
	connected bool
	trusted   bool
	handlers  map[wallet.Event]map[int]wallet.Handler
	nextID    int
}

// New creates a provider for an in-memory key.
func New(key solana.PrivateKey, opts Options) *KeyfileProvider {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &KeyfileProvider{
		key:      key,
		opts:     opts,
		trusted:  opts.Trusted,
		handlers: make(map[wallet.Event]map[int]wallet.Handler),
	}
}

// Open loads the keypair at path.
func Open(path string, opts Options) (*KeyfileProvider, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}
	return New(key, opts), nil
}

// Detector yields a provider for path, or nil when the file does not exist.
func Detector(path string, opts Options) wallet.Detector {
	return wallet.DetectorFunc(func(ctx context.Context) (wallet.Provider, error) {
		if path == "" {
			return nil, nil
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		p, err := Open(path, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

func (p *KeyfileProvider) Name() string { return Name }

// SupportsTrustedConnect is always true; the answer depends on Options.Trusted.
func (p *KeyfileProvider) SupportsTrustedConnect() bool { return true }

// PublicKey returns the wallet address.
func (p *KeyfileProvider) PublicKey() solana.PublicKey {
	return p.key.PublicKey()
}

func (p *KeyfileProvider) Connect(ctx context.Context, opts wallet.ConnectOptions) (solana.PublicKey, error) {
	pub := p.key.PublicKey()

	p.mu.Lock()
	if p.connected {
		p.mu.Unlock()
		return pub, nil
	}
	trusted := p.trusted
	p.mu.Unlock()

	if opts.OnlyIfTrusted {
		if !trusted {
			return solana.PublicKey{}, ErrNotTrusted
		}
	} else if !p.approve(ctx, Request{Kind: RequestConnect, PublicKey: pub}) {
		return solana.PublicKey{}, ErrUserRejected
	}

	p.mu.Lock()
	p.connected = true
	p.trusted = true
	p.mu.Unlock()

	p.opts.Logger.Info("Keyfile wallet connected", map[string]interface{}{"public_key": pub.String()})
	p.emit(wallet.EventConnect, wallet.EventPayload{PublicKey: pub})
	return pub, nil
}

func (p *KeyfileProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	p.emit(wallet.EventDisconnect, wallet.EventPayload{})
	return nil
}

// Lock drops the connection without being asked, the way a wallet does when the user locks it.
func (p *KeyfileProvider) Lock() {
	p.mu.Lock()
	was := p.connected
	p.connected = false
	p.mu.Unlock()

	if was {
		p.opts.Logger.Info("Keyfile wallet locked", nil)
		p.emit(wallet.EventDisconnect, wallet.EventPayload{})
	}
}

// SignAndSendTransaction signs tx with the keypair and broadcasts it.
func (p *KeyfileProvider) SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	p.mu.Lock()
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		return solana.Signature{}, ErrLocked
	}
	if tx == nil {
		return solana.Signature{}, errors.New("nil transaction")
	}

	pub := p.key.PublicKey()
	if !p.approve(ctx, Request{Kind: RequestSign, PublicKey: pub, Transaction: tx}) {
		return solana.Signature{}, ErrUserRejected
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(pub) {
			return &p.key
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}

	sender, err := p.sender(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	return sender.SendTransaction(ctx, tx)
}

// sender prefers the broadcaster pinned on ctx over the configured default.
func (p *KeyfileProvider) sender(ctx context.Context) (TransactionSender, error) {
	if b, ok := wallet.BroadcasterFrom(ctx); ok {
		return b, nil
	}
	if p.opts.Sender == nil {
		return nil, errors.New("no transaction sender configured")
	}
	return p.opts.Sender()
}

func (p *KeyfileProvider) On(event wallet.Event, handler wallet.Handler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handlers[event] == nil {
		p.handlers[event] = make(map[int]wallet.Handler)
	}
	id := p.nextID
	p.nextID++
	p.handlers[event][id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers[event], id)
	}
}

func (p *KeyfileProvider) emit(event wallet.Event, payload wallet.EventPayload) {
	p.mu.Lock()
	handlers := make([]wallet.Handler, 0, len(p.handlers[event]))
	for _, h := range p.handlers[event] {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (p *KeyfileProvider) approve(ctx context.Context, req Request) bool {
	if p.opts.Approver == nil {
		return true
	}
	return p.opts.Approver(ctx, req)
}

var _ wallet.Provider = (*KeyfileProvider)(nil)
