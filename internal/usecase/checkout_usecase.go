package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CheckoutQuote is the price breakdown for the current cart.
type CheckoutQuote struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	AmountMinor int64 // Total in the gateway's minor unit.
	LineCount   int
	ItemCount   int
}

// GatewayCallbacks are the URLs the gateway redirects the payer to.
type GatewayCallbacks struct {
	Success string
	Cancel  string
}

// CheckoutUsecase drives one checkout attempt at a time through
// Idle → FormValid → OrderCreated → PaymentInitialized → PaymentVerifying →
// PaymentSucceeded | PaymentFailed, or PaymentAbandoned.
type CheckoutUsecase interface {
	Quote() CheckoutQuote

	// Begin validates the form, creates a pending order and initialises the
	// payment. A failed order creation abandons the attempt, a failed
	// initialisation leaves it at OrderCreated.
	Begin(ctx context.Context, form entity.CheckoutForm, callbacks GatewayCallbacks) (*entity.CheckoutAttempt, error)

	// RetryPayment re-initialises the payment of the current order. From
	// OrderCreated the attempt's reference is reused, after PaymentFailed a new
	// one is generated.
	RetryPayment(ctx context.Context, callbacks GatewayCallbacks) (*entity.CheckoutAttempt, error)

	// HandleGatewayEvent feeds a payment widget callback into the attempt.
	HandleGatewayEvent(ctx context.Context, event entity.GatewayEvent) (*entity.CheckoutAttempt, error)

	// AwaitGatewayEvent blocks for the next callback and handles it.
	AwaitGatewayEvent(ctx context.Context) (*entity.CheckoutAttempt, error)

	// Reverify repeats verification of an attempt left at PaymentVerifying.
	Reverify(ctx context.Context) (*entity.CheckoutAttempt, error)

	Abandon(ctx context.Context) (*entity.CheckoutAttempt, error)

	// CancelOrder cancels an order at the store. It is refused while the
	// order's payment is being verified.
	CancelOrder(ctx context.Context, orderID string) error

	// Current returns a copy of the current attempt, or nil.
	Current() *entity.CheckoutAttempt
}
