package qrcode

import (
	"net/url"

	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// PaymentLinkPNG generates a PNG QR code for the payment page
func (s *qrcodeService) PaymentLinkPNG(link string) ([]byte, error) {
	qrCode, err := s.encode(link)
	if err != nil {
		return nil, err
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// PaymentLinkTerminal renders the QR code with half-block characters so it
// can be scanned straight from a terminal
func (s *qrcodeService) PaymentLinkTerminal(link string) (string, error) {
	qrCode, err := s.encode(link)
	if err != nil {
		return "", err
	}

	return qrCode.ToSmallString(false), nil
}

func (s *qrcodeService) encode(link string) (*qrcode.QRCode, error) {
	// Only absolute http(s) links are worth encoding
	parsed, err := url.Parse(link)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, errors.Errorf("invalid payment link: %q", link)
	}

	qrCode, err := qrcode.New(link, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	return qrCode, nil
}
