// Package router contains routing for the payment callback listener.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Paths the payment gateway redirects the payer to.
const (
	PathPaymentCallback = "/payment/callback"
	PathPaymentCancel   = "/payment/cancel"
)

type RouterParams struct {
	fx.In

	PaymentHandler      *handler.PaymentHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
	LoggerMiddleware    *middleware.LoggerMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	paymentHandler      *handler.PaymentHandler
	requestIDMiddleware *middleware.RequestIDMiddleware
	loggerMiddleware    *middleware.LoggerMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		paymentHandler:      params.PaymentHandler,
		requestIDMiddleware: params.RequestIDMiddleware,
		loggerMiddleware:    params.LoggerMiddleware,
	}
}

// RegisterRoutes sets up the callback routes.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	paymentGroup := e.Group("")
	paymentGroup.Use(r.requestIDMiddleware.Process)
	paymentGroup.Use(r.loggerMiddleware.Handle)
	{
		paymentGroup.GET(PathPaymentCallback, r.paymentHandler.Callback)
		paymentGroup.GET(PathPaymentCancel, r.paymentHandler.Cancel)
	}
}
