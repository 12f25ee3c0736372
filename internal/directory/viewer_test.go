package directory

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"viralcoin/internal/domain"
	"viralcoin/pkg/errors"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) ListMiniApps(ctx context.Context) (*domain.DirectoryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectoryResponse), args.Error(1)
}

func TestViewer_InitiallyLoading(t *testing.T) {
	v := NewViewer(new(MockSource), nil).View()

	assert.True(t, v.Loading)
	assert.False(t, v.Empty)
	assert.Empty(t, v.Error)
}

func TestViewer_Items(t *testing.T) {
	src := new(MockSource)
	items := []domain.DirectoryEntry{
		{ID: "1", Name: "Dice", URL: "https://dice.app", Tags: []string{"game"}},
		{ID: "2", Name: "Swap", URL: "https://swap.app"},
	}
	src.On("ListMiniApps", mock.Anything).Return(&domain.DirectoryResponse{OK: true, Items: items}, nil)

	viewer := NewViewer(src, nil)
	require.NoError(t, viewer.Load(context.Background()))
	v := viewer.View()

	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.False(t, v.Empty)
	assert.Equal(t, items, v.Items)
	src.AssertExpectations(t)
}

func TestViewer_OKWithoutItemsIsEmptyState(t *testing.T) {
	src := new(MockSource)
	src.On("ListMiniApps", mock.Anything).Return(&domain.DirectoryResponse{OK: true}, nil)

	v := Fetch(context.Background(), src, nil)

	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.True(t, v.Empty)
	assert.NotNil(t, v.Items)
	assert.Len(t, v.Items, 0)
}

func TestViewer_NotOK(t *testing.T) {
	src := new(MockSource)
	src.On("ListMiniApps", mock.Anything).Return(&domain.DirectoryResponse{OK: false}, nil)

	viewer := NewViewer(src, nil)
	err := viewer.Load(context.Background())
	v := viewer.View()

	assert.True(t, errors.Is(err, errors.ErrDirectoryFetchFailure))
	assert.Equal(t, LoadFailedMessage, v.Error)
	assert.Empty(t, v.Items)
	assert.False(t, v.Empty)
}

func TestViewer_TransportFailure(t *testing.T) {
	src := new(MockSource)
	src.On("ListMiniApps", mock.Anything).Return(nil, stderrors.New("send request: connection refused"))

	viewer := NewViewer(src, nil)
	err := viewer.Load(context.Background())
	v := viewer.View()

	assert.Equal(t, errors.KindDirectoryFailure, errors.KindOf(err))
	assert.Contains(t, v.Error, "connection refused")
	assert.Empty(t, v.Items)
	assert.False(t, v.Empty)
	assert.False(t, v.Loading)
}

func TestViewer_ViewIsACopy(t *testing.T) {
	src := new(MockSource)
	src.On("ListMiniApps", mock.Anything).Return(&domain.DirectoryResponse{OK: true, Items: []domain.DirectoryEntry{{ID: "1", Name: "A"}}}, nil)

	viewer := NewViewer(src, nil)
	require.NoError(t, viewer.Load(context.Background()))

	first := viewer.View()
	first.Items[0].Name = "changed"

	assert.Equal(t, "A", viewer.View().Items[0].Name)
}
