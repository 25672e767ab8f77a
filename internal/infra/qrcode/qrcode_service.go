// Package qrcode renders the QR codes printed on order slips.
package qrcode

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"boutique/config"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

const orderQRType = "order"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// OrderQRData is the payload encoded in an order QR code
type OrderQRData struct {
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
	Type      string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.QRCodeConfig) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch cfg.ErrorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 cfg.Size,
		errorCorrectionLevel: level,
	}
}

// GenerateOrderQR generates a PNG QR code identifying an order
func (s *qrcodeService) GenerateOrderQR(orderID uuid.UUID, reference string) ([]byte, error) {
	jsonData, err := json.Marshal(OrderQRData{
		OrderID:   orderID.String(),
		Reference: reference,
		Type:      orderQRType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseOrderQR parses QR code data and returns the order ID
func (s *qrcodeService) ParseOrderQR(qrData string) (uuid.UUID, error) {
	var data OrderQRData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != orderQRType {
		return uuid.Nil, errors.Errorf("invalid QR code type: %s", data.Type)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse order ID")
	}

	return orderID, nil
}
