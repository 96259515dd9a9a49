package impl

import (
	"context"
	"io"
	"strings"
	"testing"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

func createTestUploadService(t *testing.T) (usecase.UploadUsecase, *mockSvc.MockImageStorage) {
	storage := mockSvc.NewMockImageStorage(t)

	return NewUploadService(UploadServiceParams{
		Storage: storage,
		Config:  &config.Config{Storage: &config.StorageConfig{PublicPrefix: "/uploads"}},
		Logger:  newDiscardLogger(),
	}), storage
}

func TestUploadService_UploadImage(t *testing.T) {
	srv, storage := createTestUploadService(t)

	var savedKey string
	storage.EXPECT().
		Save(mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything).
		Run(func(_ context.Context, key, _ string, _ io.Reader) {
			savedKey = key
		}).
		Return(nil)

	url, err := srv.UploadImage(context.Background(), &usecase.UploadImageInput{
		Filename:    "Bowl.PNG",
		ContentType: "image/png",
		Body:        strings.NewReader(pngHeader + "pixels"),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(savedKey, ".png"))
	assert.Equal(t, "/uploads/"+savedKey, url)
}

func TestUploadService_UploadImage_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		body        string
	}{
		{"wrong extension", "notes.txt", "image/png", pngHeader},
		{"no extension", "image", "", pngHeader},
		{"wrong content type", "photo.jpg", "application/pdf", "\xff\xd8\xff\xe0"},
		{"html named png", "x.png", "image/png", "<html><script>alert(1)</script></html>"},
		{"svg named png", "x.png", "image/png", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`},
		{"gif named png", "x.png", "image/png", "GIF89a"},
		{"empty body", "x.png", "image/png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := createTestUploadService(t)

			_, err := srv.UploadImage(context.Background(), &usecase.UploadImageInput{
				Filename:    tt.filename,
				ContentType: tt.contentType,
				Body:        strings.NewReader(tt.body),
			})

			assert.ErrorIs(t, err, domainerrors.ErrInvalidImage)
		})
	}
}

func TestUploadService_UploadImage_StoresWholeBody(t *testing.T) {
	srv, storage := createTestUploadService(t)
	payload := "GIF89a" + strings.Repeat("x", 2048)

	var stored string
	storage.EXPECT().
		Save(mock.Anything, mock.AnythingOfType("string"), "image/gif", mock.Anything).
		Run(func(_ context.Context, _, _ string, r io.Reader) {
			raw, err := io.ReadAll(r)
			require.NoError(t, err)
			stored = string(raw)
		}).
		Return(nil)

	_, err := srv.UploadImage(context.Background(), &usecase.UploadImageInput{
		Filename: "spinner.gif",
		Body:     strings.NewReader(payload),
	})

	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestUploadService_OpenImage(t *testing.T) {
	srv, storage := createTestUploadService(t)

	storage.EXPECT().Open(mock.Anything, "a.png").Return(io.NopCloser(strings.NewReader("png")), "image/png", nil)

	r, contentType, err := srv.OpenImage(context.Background(), "a.png")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "image/png", contentType)

	for _, name := range []string{"", "../etc/passwd", "a/b.png", ".hidden"} {
		_, _, err := srv.OpenImage(context.Background(), name)
		assert.ErrorIs(t, err, domainerrors.ErrImageNotFound, name)
	}
}
