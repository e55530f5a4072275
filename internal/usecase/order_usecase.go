package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// OrderUsecase reads and cancels the customer's orders.
type OrderUsecase interface {
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// PaymentUsecase reads payment records and verifies references on demand.
type PaymentUsecase interface {
	History(ctx context.Context) ([]*entity.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error)
	Verify(ctx context.Context, reference string) (*entity.PaymentVerification, error)
}
