package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Event names a provider-emitted lifecycle event.
type Event string

const (
	EventConnect    Event = "connect"
	EventDisconnect Event = "disconnect"
)

// EventPayload carries the public key for connect events; it is zero on disconnect.
type EventPayload struct {
	PublicKey solana.PublicKey
}

// Handler receives provider events. It may be called from any goroutine.
type Handler func(EventPayload)

// ConnectOptions mirrors the provider connect options.
type ConnectOptions struct {
	// OnlyIfTrusted asks for a silent connect that fails instead of prompting.
	OnlyIfTrusted bool
}

// Provider is the wallet capability: connect, sign-and-send, and lifecycle events.
type Provider interface {
	Name() string
	SupportsTrustedConnect() bool
	Connect(ctx context.Context, opts ConnectOptions) (solana.PublicKey, error)
	Disconnect(ctx context.Context) error
	SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	// On registers handler and returns a func that removes it.
	On(event Event, handler Handler) (unsubscribe func())
}

// Detector probes the environment for a provider and returns nil when none is present.
type Detector interface {
	Detect(ctx context.Context) (Provider, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context) (Provider, error)

func (f DetectorFunc) Detect(ctx context.Context) (Provider, error) {
	return f(ctx)
}

// Static returns a Detector that always yields p (which may be nil).
func Static(p Provider) Detector {
	return DetectorFunc(func(context.Context) (Provider, error) {
		return p, nil
	})
}

// Broadcaster sends a signed transaction to one cluster.
type Broadcaster interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

type broadcasterKey struct{}

// WithBroadcaster pins the cluster a provider broadcasts to for calls made with ctx.
func WithBroadcaster(ctx context.Context, b Broadcaster) context.Context {
	return context.WithValue(ctx, broadcasterKey{}, b)
}

// BroadcasterFrom returns the broadcaster set by WithBroadcaster.
func BroadcasterFrom(ctx context.Context) (Broadcaster, bool) {
	b, ok := ctx.Value(broadcasterKey{}).(Broadcaster)
	return b, ok && b != nil
}
