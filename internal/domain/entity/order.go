package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state the store records on an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
	Country string
}

// OrderLine is an item as recorded on an order.
type OrderLine struct {
	ProductID string
	Name      string
	Quantity  int
	Size      string
	Color     string
	Price     decimal.Decimal
}

// OrderRequest is submitted to create a pending order before payment.
type OrderRequest struct {
	ShippingAddress ShippingAddress
	PhoneNumber     string
	PaymentMethod   string
	DeliveryFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentStatus   PaymentStatus
}

// Order is an order as returned by the store.
type Order struct {
	ID              string
	Status          string
	PaymentStatus   PaymentStatus
	ShippingAddress ShippingAddress
	Items           []OrderLine
	DeliveryFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	CreatedAt       time.Time
}

// IsPending reports whether the order still awaits payment.
func (o *Order) IsPending() bool {
	return o != nil && (o.PaymentStatus == "" || o.PaymentStatus == PaymentStatusPending)
}
