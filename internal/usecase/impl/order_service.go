package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderServiceParams holds dependencies for the order service, injected by Fx.
type OrderServiceParams struct {
	fx.In

	API      service.OrderAPI
	Checkout usecase.CheckoutUsecase
	Logger   *slog.Logger
}

// orderService implements the OrderUsecase interface.
type orderService struct {
	api      service.OrderAPI
	checkout usecase.CheckoutUsecase
	logger   *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		api:      params.API,
		checkout: params.Checkout,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *orderService) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.api.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (srv *orderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	if err := requireID(orderID, "order id"); err != nil {
		return nil, err
	}

	order, err := srv.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}

	return order, nil
}

// CancelOrder goes through checkout so an order whose payment is being
// verified cannot be cancelled underneath it.
func (srv *orderService) CancelOrder(ctx context.Context, orderID string) error {
	if err := requireID(orderID, "order id"); err != nil {
		return err
	}

	if err := srv.checkout.CancelOrder(ctx, orderID); err != nil {
		return err
	}
	srv.log(ctx).Info("Order cancelled", slog.String("order_id", orderID))

	return nil
}

func requireID(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("please give the " + what))
	}

	return nil
}
