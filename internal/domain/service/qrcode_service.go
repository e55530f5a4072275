package service

// QRCodeService renders payment links as QR codes
type QRCodeService interface {
	// PaymentLinkPNG encodes the gateway authorization URL as a PNG image
	PaymentLinkPNG(url string) ([]byte, error)

	// PaymentLinkTerminal encodes the URL as block characters for a terminal
	PaymentLinkTerminal(url string) (string, error)
}
