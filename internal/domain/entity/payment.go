package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	paymentReferencePrefix = "ORDER_"
	paymentReferenceSuffix = 8
)

// NewPaymentReference generates the correlation token shared by the gateway and
// the store's verify call: ORDER_<unix millis>_<random suffix>.
func NewPaymentReference(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:paymentReferenceSuffix]

	return fmt.Sprintf("%s%d_%s", paymentReferencePrefix, now.UnixMilli(), suffix)
}

// PaymentInit is sent to the store to open a gateway transaction for an order.
type PaymentInit struct {
	Amount      int64  // In the gateway's minor unit.
	Email       string // Payer email.
	OrderID     string // Pending order the payment settles.
	Reference   string // Client-generated correlation token.
	CallbackURL string // Where the gateway redirects after the payer acts, optional.
	Metadata    map[string]string
}

// PaymentSession is the store's answer to a payment initialisation.
type PaymentSession struct {
	Reference        string
	AuthorizationURL string // Hosted payment page, when the gateway provides one.
	AccessCode       string
}

// Verification statuses the gateway reports through the store.
const (
	VerificationStatusSuccess = "success"
	VerificationStatusFailed  = "failed"
)

// PaymentVerification is the store's view of a gateway transaction.
type PaymentVerification struct {
	Reference string
	Status    string
	Amount    decimal.Decimal
	OrderID   string
	Channel   string
	PaidAt    time.Time
}

// IsSuccessful reports a confirmed payment.
func (v *PaymentVerification) IsSuccessful() bool {
	return v != nil && strings.EqualFold(v.Status, VerificationStatusSuccess)
}

// IsPending reports a status the gateway may still move forward.
func (v *PaymentVerification) IsPending() bool {
	if v == nil {
		return false
	}

	switch strings.ToLower(v.Status) {
	case "pending", "ongoing", "processing", "queued":
		return true
	default:
		return false
	}
}

// Payment is a payment record from the customer's history.
type Payment struct {
	ID        string
	Reference string
	OrderID   string
	Amount    decimal.Decimal
	Status    string
	Channel   string
	CreatedAt time.Time
}
