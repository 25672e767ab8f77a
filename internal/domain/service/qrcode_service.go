package service

import (
	"github.com/google/uuid"
)

// QRCodeService generates and reads the QR codes printed on order slips.
type QRCodeService interface {
	// GenerateOrderQR generates a PNG QR code for an order.
	GenerateOrderQR(orderID uuid.UUID, reference string) ([]byte, error)

	// ParseOrderQR parses QR code data and returns the order ID.
	ParseOrderQR(qrData string) (uuid.UUID, error)
}
