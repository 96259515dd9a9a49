package localstore

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type line struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func newMemStore(t *testing.T) *Store {
	t.Helper()

	s := New(memblob.OpenBucket(nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestGet_MissingReturnsDefault(t *testing.T) {
	s := newMemStore(t)

	got := Get(context.Background(), s, "cart", []line{{ID: "default"}})

	assert.Equal(t, []line{{ID: "default"}}, got)
}

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	require.NoError(t, s.Set(ctx, "cart", []line{{ID: "a", Quantity: 2}}))

	assert.Equal(t, []line{{ID: "a", Quantity: 2}}, Get[[]line](ctx, s, "cart", nil))
}

func TestGet_CorruptReturnsDefault(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)
	require.NoError(t, s.SetString(ctx, "cart", "{not json"))

	got := Get(ctx, s, "cart", []line{})

	assert.Empty(t, got)
}

func TestStrings(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	assert.Empty(t, s.GetString(ctx, "token"))

	require.NoError(t, s.SetString(ctx, "token", "abc"))
	assert.Equal(t, "abc", s.GetString(ctx, "token"))

	require.NoError(t, s.Delete(ctx, "token"))
	assert.Empty(t, s.GetString(ctx, "token"))
	assert.NoError(t, s.Delete(ctx, "token"))
}

func TestOpen_FileBucketSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bucketURL := (&url.URL{Scheme: "file", Path: t.TempDir()}).String()

	first, err := Open(ctx, bucketURL, logger)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "wishlist", []string{"p1"}))
	require.NoError(t, first.Close())

	second, err := Open(ctx, bucketURL, logger)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, []string{"p1"}, Get[[]string](ctx, second, "wishlist", nil))
}
