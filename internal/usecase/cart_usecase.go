package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// AddToCartInput defines a product selection to put in the cart.
type AddToCartInput struct {
	ProductID string `validate:"required"`
	Size      string
	Color     string
	Price     decimal.Decimal
	Quantity  int // Defaults to 1.
}

// CartUsecase mirrors the signed-in customer's server-side cart. Every
// mutation is followed by a full re-fetch, so local items always equal the
// store's after a call returns.
type CartUsecase interface {
	Fetch(ctx context.Context) error
	Add(ctx context.Context, input *AddToCartInput) error

	// UpdateQuantity removes the line when quantity <= 0.
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error

	Remove(ctx context.Context, itemID string) error

	// Clear empties the cart without a re-fetch.
	Clear(ctx context.Context) error

	Items() []*entity.CartItem
	Total() decimal.Decimal
	Count() int
}
