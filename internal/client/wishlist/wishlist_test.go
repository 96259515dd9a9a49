package wishlist

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/client/localstore"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Wishlist(ctx context.Context, token string) ([]entity.Product, error) {
	args := m.Called(ctx, token)
	products, _ := args.Get(0).([]entity.Product)

	return products, args.Error(1)
}

func (m *mockRemote) AddToWishlist(ctx context.Context, token string, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, token, productID)

	return args.Bool(0), args.Error(1)
}

func newTestWishlist(t *testing.T) (*Wishlist, *localstore.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := localstore.New(memblob.OpenBucket(nil), logger)
	t.Cleanup(func() { _ = store.Close() })

	return New(context.Background(), store, logger), store
}

func product(name string) entity.Product {
	return entity.Product{ID: uuid.New(), Name: name}
}

func TestWishlist_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWishlist(t)
	p := product("Bowl")

	w.Add(ctx, p)
	w.Add(ctx, p)

	assert.Equal(t, 1, w.Count())
	assert.True(t, w.Contains(p.ID))
}

func TestWishlist_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWishlist(t)
	a, b := product("A"), product("B")
	w.Add(ctx, a)
	w.Add(ctx, b)

	w.Remove(ctx, a.ID)
	w.Remove(ctx, uuid.New())

	assert.False(t, w.Contains(a.ID))
	assert.Equal(t, []entity.Product{b}, w.Items())

	w.Clear(ctx)
	assert.Zero(t, w.Count())
}

func TestWishlist_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	w, store := newTestWishlist(t)
	p := product("Bowl")
	w.Add(ctx, p)

	restored := New(ctx, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.True(t, restored.Contains(p.ID))
}

func TestWishlist_SyncUnionMerges(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWishlist(t)
	shared, localOnly, remoteOnly := product("Shared"), product("Local"), product("Remote")
	w.Add(ctx, shared)
	w.Add(ctx, localOnly)

	remote := &mockRemote{}
	remote.On("Wishlist", mock.Anything, "tok").Return([]entity.Product{shared, remoteOnly}, nil)
	remote.On("AddToWishlist", mock.Anything, "tok", localOnly.ID).Return(true, nil).Once()

	require.NoError(t, w.Sync(ctx, remote, "tok"))

	remote.AssertExpectations(t)
	assert.Equal(t, 3, w.Count())
	assert.True(t, w.Contains(remoteOnly.ID))
}

func TestWishlist_SyncFetchFailureLeavesLocalState(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWishlist(t)
	w.Add(ctx, product("Bowl"))

	remote := &mockRemote{}
	remote.On("Wishlist", mock.Anything, "tok").Return(nil, errors.New("offline"))

	err := w.Sync(ctx, remote, "tok")

	require.Error(t, err)
	assert.Equal(t, 1, w.Count())
	remote.AssertNotCalled(t, "AddToWishlist", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlist_SyncReportsPushFailure(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWishlist(t)
	a, b := product("A"), product("B")
	w.Add(ctx, a)
	w.Add(ctx, b)

	remote := &mockRemote{}
	remote.On("Wishlist", mock.Anything, "tok").Return([]entity.Product{}, nil)
	remote.On("AddToWishlist", mock.Anything, "tok", a.ID).Return(false, errors.New("boom"))
	remote.On("AddToWishlist", mock.Anything, "tok", b.ID).Return(true, nil)

	err := w.Sync(ctx, remote, "tok")

	require.Error(t, err)
	remote.AssertExpectations(t)
}
