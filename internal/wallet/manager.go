// Package wallet tracks the connection between the app and a wallet provider.
package wallet

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// Manager owns the WalletSession. The provider handle is fixed once detected.
type Manager struct {
	detector Detector
	logger   logger.Logger

	mu       sync.RWMutex
	provider Provider
	address  solana.PublicKey
	network  domain.Network
	state    domain.SessionState
	unsubs   []func()
	closed   bool

	// watchMu is taken before mu, never after.
	watchMu     sync.Mutex
	watchers    map[int]chan domain.WalletSession
	nextWatch   int
	watchClosed bool
}

// NewManager creates a manager in the Uninitialized state.
func NewManager(detector Detector, network domain.Network, log logger.Logger) *Manager {
	if !network.Valid() {
		network = domain.DefaultNetwork
	}
	if detector == nil {
		detector = Static(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		detector: detector,
		logger:   log,
		network:  network,
		state:    domain.SessionUninitialized,
		watchers: make(map[int]chan domain.WalletSession),
	}
}

// Init detects the provider, subscribes to its events and tries a trusted reconnect.
// Calling Init more than once, or after Close, is a no-op.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	if m.closed || m.state != domain.SessionUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = domain.SessionDetecting
	m.mu.Unlock()

	p, err := m.detector.Detect(ctx)
	if err != nil {
		m.logger.Warn("Wallet provider detection failed", map[string]interface{}{"error": err.Error()})
		p = nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if p == nil {
		m.state = domain.SessionNoProvider
		m.mu.Unlock()
		m.logger.Info("No wallet provider detected", nil)
		m.notify()
		return
	}
	m.provider = p
	m.state = domain.SessionDisconnected
	m.unsubs = append(m.unsubs,
		p.On(EventConnect, m.handleConnect),
		p.On(EventDisconnect, m.handleDisconnect),
	)
	m.mu.Unlock()

	m.logger.Info("Wallet provider detected", map[string]interface{}{"provider": p.Name()})
	m.notify()

	if !p.SupportsTrustedConnect() {
		return
	}
	key, err := p.Connect(ctx, ConnectOptions{OnlyIfTrusted: true})
	if err != nil || key.IsZero() {
		m.logger.Debug("Trusted reconnect skipped", map[string]interface{}{"error": errString(err)})
		return
	}
	m.setAddress(key)
}

// Connect asks the provider for an explicit connection.
func (m *Manager) Connect(ctx context.Context) (solana.PublicKey, error) {
	p := m.Provider()
	if p == nil {
		return solana.PublicKey{}, errors.ErrProviderMissing
	}

	key, err := p.Connect(ctx, ConnectOptions{})
	if err != nil {
		return solana.PublicKey{}, errors.Mark(errors.ErrProviderRejected, err)
	}
	if key.IsZero() {
		return solana.PublicKey{}, errors.Mark(errors.ErrProviderRejected, errors.Wrap(errors.ErrNotConnected, "provider returned no public key"))
	}

	m.setAddress(key)
	m.logger.Info("Wallet connected", map[string]interface{}{"address": key.String()})
	return key, nil
}

// Disconnect is a no-op without a provider.
func (m *Manager) Disconnect(ctx context.Context) error {
	p := m.Provider()
	if p == nil {
		return nil
	}
	if err := p.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "disconnect wallet")
	}
	m.setAddress(solana.PublicKey{})
	m.logger.Info("Wallet disconnected", nil)
	return nil
}

// Close releases the provider event subscriptions and ends all watchers.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}

	m.watchMu.Lock()
	m.watchClosed = true
	for id, ch := range m.watchers {
		close(ch)
		delete(m.watchers, id)
	}
	m.watchMu.Unlock()
}

// Provider returns the detected provider, or nil.
func (m *Manager) Provider() Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider
}

// Address returns the connected public key and whether one is set.
func (m *Manager) Address() (solana.PublicKey, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.address, !m.address.IsZero()
}

// State returns the current lifecycle state.
func (m *Manager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Network returns the selected cluster.
func (m *Manager) Network() domain.Network {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.network
}

// SetNetwork changes the cluster used by future transfers; the open session is untouched.
func (m *Manager) SetNetwork(network domain.Network) error {
	if !network.Valid() {
		return errors.Wrap(errors.ErrUnknownNetwork, string(network))
	}
	m.mu.Lock()
	m.network = network
	m.mu.Unlock()
	m.notify()
	return nil
}

// Session returns a snapshot of the session.
func (m *Manager) Session() domain.WalletSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Watch streams session snapshots after every change, starting with the current one.
// Slow readers only see the latest snapshot. The cancel func must be called when done.
func (m *Manager) Watch() (<-chan domain.WalletSession, func()) {
	ch := make(chan domain.WalletSession, 1)

	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	ch <- m.Session()
	if m.watchClosed {
		close(ch)
		return ch, func() {}
	}
	id := m.nextWatch
	m.nextWatch++
	m.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.watchMu.Lock()
			defer m.watchMu.Unlock()
			if c, ok := m.watchers[id]; ok {
				close(c)
				delete(m.watchers, id)
			}
		})
	}
}

func (m *Manager) handleConnect(payload EventPayload) {
	m.logger.Debug("Provider connect event", map[string]interface{}{"address": payload.PublicKey.String()})
	m.setAddress(payload.PublicKey)
}

func (m *Manager) handleDisconnect(EventPayload) {
	m.logger.Debug("Provider disconnect event", nil)
	m.setAddress(solana.PublicKey{})
}

func (m *Manager) setAddress(key solana.PublicKey) {
	m.mu.Lock()
	if m.provider == nil {
		m.mu.Unlock()
		return
	}
	m.address = key
	if key.IsZero() {
		m.state = domain.SessionDisconnected
	} else {
		m.state = domain.SessionConnected
	}
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) snapshotLocked() domain.WalletSession {
	s := domain.WalletSession{
		State:       m.state,
		HasProvider: m.provider != nil,
		Network:     m.network,
	}
	if m.provider != nil {
		s.Provider = m.provider.Name()
	}
	if !m.address.IsZero() {
		s.Address = m.address.String()
	}
	return s
}

func (m *Manager) notify() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	snap := m.Session()
	for _, ch := range m.watchers {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot so the newest one fits
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
