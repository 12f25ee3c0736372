// Package directory loads and projects the mini-app list.
package directory

import (
	"context"
	"sync"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
	"viralcoin/pkg/logger"
)

const (
	// LoadFailedMessage is shown when the backend answers ok:false.
	LoadFailedMessage = "Failed to load apps"
	// EmptyMessage is shown when the list loaded fine but has no items.
	EmptyMessage = "No apps yet. Be the first to submit one!"
)

// Source returns the directory envelope.
type Source interface {
	ListMiniApps(ctx context.Context) (*domain.DirectoryResponse, error)
}

// View is the render-ready projection of a load cycle.
type View struct {
	Loading bool                    `json:"loading"`
	Error   string                  `json:"error,omitempty"`
	Items   []domain.DirectoryEntry `json:"items"`
	Empty   bool                    `json:"empty"`
}

// Viewer holds the state of one fetch cycle.
type Viewer struct {
	source Source
	logger logger.Logger

	mu      sync.RWMutex
	loading bool
	errMsg  string
	items   []domain.DirectoryEntry
}

// NewViewer starts in the loading state.
func NewViewer(source Source, log logger.Logger) *Viewer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Viewer{
		source:  source,
		logger:  log,
		loading: true,
		items:   []domain.DirectoryEntry{},
	}
}

// Load performs the single fetch. The returned error is also reflected in View.
func (v *Viewer) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	resp, err := v.source.ListMiniApps(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false

	if err != nil {
		err = errors.Mark(errors.ErrDirectoryFetchFailure, err)
		v.errMsg = errors.UserMessage(err)
		v.logger.Warn("Mini-app list fetch failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	if resp == nil || !resp.OK {
		v.errMsg = LoadFailedMessage
		v.logger.Warn("Mini-app list not ok", nil)
		return errors.Wrap(errors.ErrDirectoryFetchFailure, "backend returned ok=false")
	}

	v.errMsg = ""
	v.items = resp.Items
	if v.items == nil {
		v.items = []domain.DirectoryEntry{}
	}
	return nil
}

// View projects the current state.
func (v *Viewer) View() View {
	v.mu.RLock()
	defer v.mu.RUnlock()

	items := make([]domain.DirectoryEntry, len(v.items))
	copy(items, v.items)
	return View{
		Loading: v.loading,
		Error:   v.errMsg,
		Items:   items,
		Empty:   !v.loading && v.errMsg == "" && len(items) == 0,
	}
}

// Fetch runs one complete load cycle and returns its view.
func Fetch(ctx context.Context, source Source, log logger.Logger) View {
	v := NewViewer(source, log)
	_ = v.Load(ctx)
	return v.View()
}
