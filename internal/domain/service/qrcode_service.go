package service

import (
	"github.com/google/uuid"
)

// QRCodeService renders share codes for catalog products.
type QRCodeService interface {
	// GenerateProductQR returns a PNG encoding the product's storefront URL.
	GenerateProductQR(productID uuid.UUID) ([]byte, error)

	// ParseProductQR extracts the product ID from decoded QR text.
	ParseProductQR(qrData string) (uuid.UUID, error)
}
