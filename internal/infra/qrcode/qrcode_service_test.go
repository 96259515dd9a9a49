package qrcode

import (
	"testing"

	"storefront/config"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(size int, level string) *config.Config {
	return &config.Config{
		QRCode: &config.QRCodeConfig{
			Size:                 size,
			ErrorCorrectionLevel: level,
			BaseURL:              "https://shop.example.com/",
		},
	}
}

func TestRecoveryLevel(t *testing.T) {
	tests := []struct {
		level string
		want  qrcode.RecoveryLevel
	}{
		{"L", qrcode.Low},
		{"M", qrcode.Medium},
		{"q", qrcode.High},
		{"H", qrcode.Highest},
		{"invalid", qrcode.Medium},
		{"", qrcode.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, recoveryLevel(tt.level))
		})
	}
}

func TestNewQRCodeService_Defaults(t *testing.T) {
	svc := NewQRCodeService(nil).(*qrcodeService)

	assert.Equal(t, defaultSize, svc.size)
	assert.Equal(t, qrcode.Medium, svc.errorCorrectionLevel)
	assert.Empty(t, svc.baseURL)
}

func TestQRCodeService_GenerateProductQR(t *testing.T) {
	svc := NewQRCodeService(newTestConfig(256, "M"))

	qrBytes, err := svc.GenerateProductQR(uuid.New())
	require.NoError(t, err)
	require.Greater(t, len(qrBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_GenerateProductQR_NilID(t *testing.T) {
	svc := NewQRCodeService(newTestConfig(256, "M"))

	_, err := svc.GenerateProductQR(uuid.Nil)
	assert.Error(t, err)
}

func TestQRCodeService_ProductURL(t *testing.T) {
	svc := NewQRCodeService(newTestConfig(128, "L")).(*qrcodeService)
	id := uuid.MustParse("0190f1e2-7a4b-7c3d-9e8f-1a2b3c4d5e6f")

	assert.Equal(t, "https://shop.example.com/products/"+id.String(), svc.productURL(id))
}

func TestQRCodeService_ParseProductQR(t *testing.T) {
	svc := NewQRCodeService(newTestConfig(256, "M"))
	id := uuid.New()

	tests := []struct {
		name    string
		data    string
		want    uuid.UUID
		wantErr bool
	}{
		{"product url", "https://shop.example.com/products/" + id.String(), id, false},
		{"trailing slash", "https://shop.example.com/products/" + id.String() + "/", id, false},
		{"bare id", id.String(), id, false},
		{"empty", "  ", uuid.Nil, true},
		{"wrong path", "https://shop.example.com/orders/" + id.String(), uuid.Nil, true},
		{"bad id", "https://shop.example.com/products/not-a-uuid", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ParseProductQR(tt.data)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQRCodeService_RoundTrip(t *testing.T) {
	svc := NewQRCodeService(newTestConfig(256, "H")).(*qrcodeService)
	id := uuid.New()

	got, err := svc.ParseProductQR(svc.productURL(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
