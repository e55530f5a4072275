package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// AccountUsecase manages the customer's saved delivery details.
type AccountUsecase interface {
	// GetDeliveryInfo returns nil without error when nothing is saved.
	GetDeliveryInfo(ctx context.Context) (*entity.DeliveryInfo, error)

	// SaveDeliveryInfo creates the details, or updates them if some exist.
	SaveDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error

	// PrefillCheckoutForm builds a checkout form from the saved details,
	// falling back to the identity's name and email.
	PrefillCheckoutForm(ctx context.Context) (entity.CheckoutForm, error)
}
