package impl

import (
	"io"
	"log/slog"
	"time"

	"storefront/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Checkout.FreeShippingThreshold = 100000
	cfg.Checkout.PerItemDeliveryFee = 500
	cfg.Checkout.MinorUnitFactor = 100
	cfg.Checkout.Country = "Nigeria"
	cfg.Checkout.PaymentMethod = "Credit/Debit Card"
	cfg.Payment.PublicKey = "pk_test_123"
	cfg.Payment.Verify.MaxAttempts = 3
	cfg.Payment.Verify.Interval = time.Millisecond

	return cfg
}
