package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// defaultPublishTimeout bounds how long a redirect waits for the checkout to take its event.
const defaultPublishTimeout = 5 * time.Second

// PaymentHandlerParams defines the dependencies for PaymentHandler
type PaymentHandlerParams struct {
	fx.In

	Bus    service.GatewayEventBus
	Logger *slog.Logger
}

// PaymentHandler turns gateway redirects into checkout events
type PaymentHandler struct {
	bus            service.GatewayEventBus
	logger         *slog.Logger
	publishTimeout time.Duration
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(params PaymentHandlerParams) *PaymentHandler {
	return &PaymentHandler{
		bus:            params.Bus,
		logger:         params.Logger,
		publishTimeout: defaultPublishTimeout,
	}
}

// Callback handles the gateway's redirect after the payer completed the payment
func (h *PaymentHandler) Callback(c echo.Context) error {
	reference := deliverycontext.GatewayReference(c)
	if reference == "" {
		return response.Reject(c, http.StatusBadRequest, "MISSING_REFERENCE", "the gateway did not send a transaction reference")
	}

	return h.publish(c, entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: reference},
		"Payment received, return to your terminal to see the result")
}

// Cancel handles the payer closing or cancelling the payment page
func (h *PaymentHandler) Cancel(c echo.Context) error {
	return h.publish(c, entity.GatewayEvent{Kind: entity.GatewayEventClosed, Reference: deliverycontext.GatewayReference(c)},
		"Payment cancelled, your order stays pending")
}

func (h *PaymentHandler) publish(c echo.Context, event entity.GatewayEvent, message string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.publishTimeout)
	defer cancel()

	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	if err := h.bus.Publish(ctx, event); err != nil {
		logger.Warn("Gateway event not delivered",
			slog.String("kind", string(event.Kind)),
			slog.String("reference", event.Reference),
			slog.Any("error", err),
		)
		if errors.IsCanceled(err) {
			return response.Reject(c, http.StatusConflict, "NO_PENDING_CHECKOUT", "no checkout is waiting for this payment")
		}

		return errors.Wrap(err, "failed to publish gateway event")
	}

	return response.Acknowledge(c, string(event.Kind), event.Reference, message)
}

// HealthCheck reports that the callback listener is up
func HealthCheck(c echo.Context) error {
	return response.Healthy(c)
}
