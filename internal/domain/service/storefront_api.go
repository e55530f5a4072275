package service

import (
	"context"

	"storefront/internal/domain/entity"
)

// AuthAPI is the store's identity surface.
type AuthAPI interface {
	SignIn(ctx context.Context, email, password string) (*entity.AuthResult, error)
	SignUp(ctx context.Context, name, email, password string) (*entity.AuthResult, error)
	Profile(ctx context.Context) (*entity.Identity, error)

	// RefreshToken exchanges the server-side refresh credential for a new
	// bearer token and persists it.
	RefreshToken(ctx context.Context) (*entity.AuthResult, error)

	SignOut(ctx context.Context) error
	VerifyEmail(ctx context.Context, email, otp string) error
	RequestNewOTP(ctx context.Context, email string) error
}

// CatalogAPI lists what the store sells.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	ListTestimonials(ctx context.Context) ([]*entity.Testimonial, error)
}

// CartAPI is the server-side cart of the signed-in customer.
type CartAPI interface {
	GetCart(ctx context.Context) ([]*entity.CartItem, error)
	AddCartItem(ctx context.Context, item *entity.AddCartItem) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

// OrderAPI creates and manages orders.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req *entity.OrderRequest) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// PaymentAPI initialises and verifies gateway payments through the store.
type PaymentAPI interface {
	InitializePayment(ctx context.Context, req *entity.PaymentInit) (*entity.PaymentSession, error)
	VerifyPayment(ctx context.Context, reference string) (*entity.PaymentVerification, error)
	PaymentHistory(ctx context.Context) ([]*entity.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error)
}

// DeliveryAPI stores the customer's delivery details.
type DeliveryAPI interface {
	// GetDeliveryInfo returns nil without error when nothing is saved.
	GetDeliveryInfo(ctx context.Context) (*entity.DeliveryInfo, error)
	SaveDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error
	UpdateDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error
}

// StorefrontAPI is the whole collaborator surface.
type StorefrontAPI interface {
	AuthAPI
	CatalogAPI
	CartAPI
	OrderAPI
	PaymentAPI
	DeliveryAPI

	// ResolveImageURL turns a backend-relative image path into an absolute URL.
	ResolveImageURL(path string) string

	// OnSessionExpired registers fn to run after a failed token refresh has
	// cleared the persisted token.
	OnSessionExpired(fn func(ctx context.Context))
}
