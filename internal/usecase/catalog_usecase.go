package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CatalogUsecase reads products and testimonials. Nothing is cached: every
// listing is fetched fresh.
type CatalogUsecase interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	FeaturedProducts(ctx context.Context) ([]*entity.Product, error)
	FindProduct(ctx context.Context, productID string) (*entity.Product, error)
	ListTestimonials(ctx context.Context) ([]*entity.Testimonial, error)
}
