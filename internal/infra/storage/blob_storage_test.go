package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	domainerrors "storefront/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobImageStorage_SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, "mem://")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "a.png", "image/png", strings.NewReader("png-bytes")))

	r, contentType, err := store.Open(ctx, "a.png")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)
}

func TestBlobImageStorage_OpenMissing(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, "mem://")
	require.NoError(t, err)
	defer store.Close()

	_, _, err = store.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, domainerrors.ErrImageNotFound)
}

func TestBlobImageStorage_FileBucketPersists(t *testing.T) {
	ctx := context.Background()
	bucketURL := "file://" + t.TempDir()

	store, err := Open(ctx, bucketURL)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "b.jpg", "image/jpeg", strings.NewReader("jpeg")))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, bucketURL)
	require.NoError(t, err)
	defer reopened.Close()

	r, _, err := reopened.Open(ctx, "b.jpg")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "nope://bucket")
	assert.Error(t, err)
}
