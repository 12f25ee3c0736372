package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralcoin/internal/domain"
	pkgerrors "viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

// --- Fakes ---

type fakeProvider struct {
	mu          sync.Mutex
	key         solana.PublicKey
	trusted     bool
	autoTrust   bool
	rejectErr   error
	handlers    map[Event]map[int]Handler
	nextID      int
	connects    []ConnectOptions
	disconnects int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		key:      solana.NewWallet().PublicKey(),
		handlers: make(map[Event]map[int]Handler),
	}
}

func (f *fakeProvider) Name() string                 { return "fake" }
func (f *fakeProvider) SupportsTrustedConnect() bool { return f.autoTrust }

func (f *fakeProvider) Connect(ctx context.Context, opts ConnectOptions) (solana.PublicKey, error) {
	f.mu.Lock()
	f.connects = append(f.connects, opts)
	f.mu.Unlock()
	if opts.OnlyIfTrusted && !f.trusted {
		return solana.PublicKey{}, errors.New("not trusted")
	}
	if f.rejectErr != nil {
		return solana.PublicKey{}, f.rejectErr
	}
	f.emit(EventConnect, EventPayload{PublicKey: f.key})
	return f.key, nil
}

func (f *fakeProvider) Disconnect(ctx context.Context) error {
	f.mu.Lock()
	f.disconnects++
	f.mu.Unlock()
	f.emit(EventDisconnect, EventPayload{})
	return nil
}

func (f *fakeProvider) SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return solana.Signature{}, errors.New("not implemented")
}

func (f *fakeProvider) On(event Event, handler Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers[event] == nil {
		f.handlers[event] = make(map[int]Handler)
	}
	id := f.nextID
	f.nextID++
	f.handlers[event][id] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers[event], id)
	}
}

func (f *fakeProvider) emit(event Event, payload EventPayload) {
	f.mu.Lock()
	var hs []Handler
	for _, h := range f.handlers[event] {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}

func (f *fakeProvider) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, hs := range f.handlers {
		n += len(hs)
	}
	return n
}

// --- Tests ---

func TestInit_NoProvider(t *testing.T) {
	m := NewManager(Static(nil), domain.NetworkDevnet, logger.NewNop())
	assert.Equal(t, domain.SessionUninitialized, m.State())

	m.Init(context.Background())

	assert.Equal(t, domain.SessionNoProvider, m.State())
	_, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, pkgerrors.ErrProviderMissing)
	assert.NoError(t, m.Disconnect(context.Background()))
	assert.Equal(t, domain.SessionNoProvider, m.State())
	assert.False(t, m.Session().HasProvider)
}

func TestInit_DetectionErrorMeansNoProvider(t *testing.T) {
	m := NewManager(DetectorFunc(func(context.Context) (Provider, error) {
		return nil, errors.New("probe failed")
	}), domain.NetworkMainnet, nil)

	m.Init(context.Background())

	assert.Equal(t, domain.SessionNoProvider, m.State())
}

func TestInit_ProviderDisconnected(t *testing.T) {
	p := newFakeProvider()
	m := NewManager(Static(p), domain.NetworkMainnet, nil)

	m.Init(context.Background())

	assert.Equal(t, domain.SessionDisconnected, m.State())
	assert.Empty(t, p.connects, "no silent connect without trusted-connect support")
	assert.Equal(t, 2, p.listenerCount())

	m.Init(context.Background())
	assert.Equal(t, 2, p.listenerCount(), "second Init must not subscribe again")
}

func TestInit_TrustedReconnect(t *testing.T) {
	p := newFakeProvider()
	p.autoTrust = true
	p.trusted = true
	m := NewManager(Static(p), domain.NetworkMainnet, nil)

	m.Init(context.Background())

	require.Len(t, p.connects, 1)
	assert.True(t, p.connects[0].OnlyIfTrusted)
	assert.Equal(t, domain.SessionConnected, m.State())
	addr, ok := m.Address()
	assert.True(t, ok)
	assert.Equal(t, p.key, addr)
}

func TestInit_TrustedReconnectFailureIsSwallowed(t *testing.T) {
	p := newFakeProvider()
	p.autoTrust = true
	m := NewManager(Static(p), domain.NetworkMainnet, nil)

	m.Init(context.Background())

	assert.Equal(t, domain.SessionDisconnected, m.State())
	_, ok := m.Address()
	assert.False(t, ok)
}

func TestConnectAndDisconnect(t *testing.T) {
	p := newFakeProvider()
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Init(context.Background())

	key, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, p.key, key)
	assert.Equal(t, domain.SessionConnected, m.State())
	assert.Equal(t, p.key.String(), m.Session().Address)

	require.NoError(t, m.Disconnect(context.Background()))
	assert.Equal(t, domain.SessionDisconnected, m.State())
	assert.Empty(t, m.Session().Address)
	assert.Equal(t, 1, p.disconnects)
}

func TestConnect_Rejected(t *testing.T) {
	p := newFakeProvider()
	p.rejectErr = errors.New("user rejected the request")
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Init(context.Background())

	_, err := m.Connect(context.Background())

	assert.ErrorIs(t, err, pkgerrors.ErrProviderRejected)
	assert.ErrorIs(t, err, p.rejectErr)
	assert.Equal(t, domain.SessionDisconnected, m.State())
}

func TestProviderDisconnectEventClearsAddress(t *testing.T) {
	p := newFakeProvider()
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Init(context.Background())
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	p.emit(EventDisconnect, EventPayload{})

	assert.Equal(t, domain.SessionDisconnected, m.State())
	_, ok := m.Address()
	assert.False(t, ok)
}

func TestProviderConnectEventSetsAddress(t *testing.T) {
	p := newFakeProvider()
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Init(context.Background())

	other := solana.NewWallet().PublicKey()
	p.emit(EventConnect, EventPayload{PublicKey: other})

	addr, ok := m.Address()
	assert.True(t, ok)
	assert.Equal(t, other, addr)
	assert.Equal(t, domain.SessionConnected, m.State())
}

func TestCloseUnsubscribes(t *testing.T) {
	p := newFakeProvider()
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Init(context.Background())
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	m.Close()
	m.Close()

	assert.Equal(t, 0, p.listenerCount())
	p.emit(EventDisconnect, EventPayload{})
	assert.Equal(t, domain.SessionConnected, m.State(), "events after Close are ignored")
}

func TestSetNetwork(t *testing.T) {
	m := NewManager(Static(nil), "bogus", nil)
	assert.Equal(t, domain.DefaultNetwork, m.Network())

	require.NoError(t, m.SetNetwork(domain.NetworkTestnet))
	assert.Equal(t, domain.NetworkTestnet, m.Network())

	err := m.SetNetwork("localnet")
	assert.ErrorIs(t, err, pkgerrors.ErrUnknownNetwork)
	assert.Equal(t, domain.NetworkTestnet, m.Network())
}

func TestWatchStreamsLatestSession(t *testing.T) {
	p := newFakeProvider()
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Init(context.Background())

	ch, cancel := m.Watch()
	defer cancel()

	first := <-ch
	assert.Equal(t, domain.SessionDisconnected, first.State)

	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	select {
	case s := <-ch:
		assert.Equal(t, domain.SessionConnected, s.State)
		assert.Equal(t, p.key.String(), s.Address)
	case <-time.After(time.Second):
		t.Fatal("no session update received")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestWatchEndsOnClose(t *testing.T) {
	m := NewManager(Static(nil), domain.NetworkMainnet, nil)
	m.Init(context.Background())
	ch, cancel := m.Watch()
	defer cancel()
	<-ch

	m.Close()

	_, open := <-ch
	assert.False(t, open)
}

func TestWatchAfterClose(t *testing.T) {
	m := NewManager(Static(nil), domain.NetworkMainnet, nil)
	m.Init(context.Background())
	m.Close()

	ch, cancel := m.Watch()
	defer cancel()

	s, open := <-ch
	assert.True(t, open)
	assert.Equal(t, domain.SessionNoProvider, s.State)
	_, open = <-ch
	assert.False(t, open)
}

func TestWatchRacingCloseAlwaysEnds(t *testing.T) {
	for i := 0; i < 50; i++ {
		m := NewManager(Static(nil), domain.NetworkMainnet, nil)
		m.Init(context.Background())

		var wg sync.WaitGroup
		chans := make([]<-chan domain.WalletSession, 8)
		for j := range chans {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				chans[j], _ = m.Watch()
			}(j)
		}
		m.Close()
		wg.Wait()

		for _, ch := range chans {
			done := make(chan struct{})
			go func(ch <-chan domain.WalletSession) {
				for range ch {
				}
				close(done)
			}(ch)
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("watcher registered around Close was never ended")
			}
		}
	}
}

func TestInitAfterCloseDoesNotSubscribe(t *testing.T) {
	p := newFakeProvider()
	p.autoTrust, p.trusted = true, true
	m := NewManager(Static(p), domain.NetworkMainnet, nil)
	m.Close()

	m.Init(context.Background())

	assert.Equal(t, 0, p.listenerCount())
	assert.Empty(t, p.connects)
	assert.Equal(t, domain.SessionUninitialized, m.State())
}
