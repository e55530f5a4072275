package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	api    service.CatalogAPI
	logger *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(api service.CatalogAPI, logger *slog.Logger) usecase.CatalogUsecase {
	return &catalogService{
		api:    api,
		logger: logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.api.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	srv.log(ctx).Debug("Products listed", slog.Int("count", len(products)))

	return products, nil
}

func (srv *catalogService) FeaturedProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	featured := make([]*entity.Product, 0, len(products))
	for _, product := range products {
		if product.Featured {
			featured = append(featured, product)
		}
	}

	return featured, nil
}

// FindProduct scans the listing; the store has no single-product endpoint.
func (srv *catalogService) FindProduct(ctx context.Context, productID string) (*entity.Product, error) {
	products, err := srv.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		if product.ID == productID {
			return product, nil
		}
	}

	return nil, errors.WithStack(domainerrors.ErrNotFound.WithDetails("product " + productID))
}

func (srv *catalogService) ListTestimonials(ctx context.Context) ([]*entity.Testimonial, error) {
	testimonials, err := srv.api.ListTestimonials(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list testimonials")
	}

	return testimonials, nil
}
