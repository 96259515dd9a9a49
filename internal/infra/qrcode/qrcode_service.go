package qrcode

import (
	"net/url"
	"path"
	"strings"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	productPathDir = "products"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	var qrCfg config.QRCodeConfig
	if cfg != nil && cfg.QRCode != nil {
		qrCfg = *cfg.QRCode
	}

	size := qrCfg.Size
	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: recoveryLevel(qrCfg.ErrorCorrectionLevel),
		baseURL:              strings.TrimRight(qrCfg.BaseURL, "/"),
	}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// productURL is what a phone camera opens after scanning.
func (s *qrcodeService) productURL(productID uuid.UUID) string {
	return s.baseURL + "/" + productPathDir + "/" + productID.String()
}

// GenerateProductQR renders the product page URL as a PNG.
func (s *qrcodeService) GenerateProductQR(productID uuid.UUID) ([]byte, error) {
	if productID == uuid.Nil {
		return nil, errors.New("product id is required")
	}

	qrCode, err := qrcode.New(s.productURL(productID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseProductQR accepts either a product URL or a bare product ID.
func (s *qrcodeService) ParseProductQR(qrData string) (uuid.UUID, error) {
	raw := strings.TrimSpace(qrData)
	if raw == "" {
		return uuid.Nil, errors.New("empty QR code data")
	}

	if id, err := uuid.Parse(raw); err == nil {
		return id, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse QR code URL")
	}

	dir, last := path.Split(strings.TrimRight(parsed.Path, "/"))
	if path.Base(dir) != productPathDir {
		return uuid.Nil, errors.Errorf("not a product link: %s", raw)
	}

	productID, err := uuid.Parse(last)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse product ID")
	}

	return productID, nil
}
