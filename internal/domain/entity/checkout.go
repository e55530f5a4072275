package entity

import (
	"strings"
	"time"

	domainerrors "storefront/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CheckoutState is the position of a checkout attempt in its lifecycle.
type CheckoutState string

const (
	CheckoutStateIdle               CheckoutState = "IDLE"
	CheckoutStateFormValid          CheckoutState = "FORM_VALID"
	CheckoutStateOrderCreated       CheckoutState = "ORDER_CREATED"
	CheckoutStatePaymentInitialized CheckoutState = "PAYMENT_INITIALIZED"
	CheckoutStatePaymentVerifying   CheckoutState = "PAYMENT_VERIFYING"
	CheckoutStatePaymentSucceeded   CheckoutState = "PAYMENT_SUCCEEDED"
	CheckoutStatePaymentFailed      CheckoutState = "PAYMENT_FAILED"
	CheckoutStatePaymentAbandoned   CheckoutState = "PAYMENT_ABANDONED"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:               {CheckoutStateFormValid, CheckoutStatePaymentAbandoned},
	CheckoutStateFormValid:          {CheckoutStateOrderCreated, CheckoutStatePaymentAbandoned},
	CheckoutStateOrderCreated:       {CheckoutStatePaymentInitialized, CheckoutStatePaymentAbandoned},
	CheckoutStatePaymentInitialized: {CheckoutStatePaymentVerifying, CheckoutStatePaymentAbandoned},
	CheckoutStatePaymentVerifying:   {CheckoutStatePaymentSucceeded, CheckoutStatePaymentFailed, CheckoutStatePaymentAbandoned},
	// A failed payment may be retried with a fresh reference against the same order.
	CheckoutStatePaymentFailed: {CheckoutStatePaymentInitialized, CheckoutStatePaymentAbandoned},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no further transition is possible.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStatePaymentSucceeded || s == CheckoutStatePaymentAbandoned
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

// CheckoutForm is the delivery and contact data collected before payment.
// Field order is the order in which missing values are reported.
type CheckoutForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Address   string `validate:"required"`
	City      string `validate:"required"`
	ZipCode   string `validate:"required"`
	Mobile    string `validate:"required"`
	Email     string `validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (f CheckoutForm) Normalize() CheckoutForm {
	return CheckoutForm{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Address:   strings.TrimSpace(f.Address),
		City:      strings.TrimSpace(f.City),
		ZipCode:   strings.TrimSpace(f.ZipCode),
		Mobile:    strings.TrimSpace(f.Mobile),
		Email:     strings.TrimSpace(f.Email),
	}
}

// FullName joins first and last name.
func (f CheckoutForm) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// CheckoutAttempt tracks one pass through the checkout state machine.
type CheckoutAttempt struct {
	ID               uuid.UUID
	State            CheckoutState
	Form             CheckoutForm
	OrderID          string
	Reference        string // Exactly one per attempt; replaced only when retrying after a failed payment.
	Subtotal         decimal.Decimal
	DeliveryFee      decimal.Decimal
	TotalAmount      decimal.Decimal
	AmountMinor      int64 // TotalAmount in the gateway's minor unit.
	ItemCount        int
	AuthorizationURL string
	Verification     *PaymentVerification
	FailureReason    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewCheckoutAttempt starts an attempt in the Idle state.
func NewCheckoutAttempt(form CheckoutForm, now time.Time) *CheckoutAttempt {
	return &CheckoutAttempt{
		ID:        uuid.New(),
		State:     CheckoutStateIdle,
		Form:      form,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo moves the attempt to next or returns ErrIllegalTransition.
func (a *CheckoutAttempt) TransitionTo(next CheckoutState, now time.Time) error {
	if !a.State.CanTransitionTo(next) {
		return errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails(string(a.State) + " -> " + string(next)))
	}
	a.State = next
	a.UpdatedAt = now

	return nil
}

// GatewayEventKind distinguishes the two outcomes the payment widget reports.
type GatewayEventKind string

const (
	GatewayEventSuccess GatewayEventKind = "success"
	GatewayEventClosed  GatewayEventKind = "closed"
)

// GatewayEvent is a callback from the external payment widget.
type GatewayEvent struct {
	Kind      GatewayEventKind
	Reference string // The gateway's own transaction reference.
}
