package http

import (
	"context"
	"log/slog"
	"net"
	nethttp "net/http"
	"strconv"
	"sync"
	"time"

	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

const shutdownTimeout = 5 * time.Second

type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config          *config.Config
	Logger          *slog.Logger
	ErrorMiddleware *middleware.ErrorMiddleware
	RouterParams    router.RouterParams
}

// CallbackServer is the local listener the payment gateway redirects the payer to.
type CallbackServer struct {
	cfg    config.CallbackConfig
	logger *slog.Logger
	server *echo.Echo

	mu      sync.Mutex
	baseURL string
}

var _ delivery.Delivery = (*CallbackServer)(nil)

func NewServer(params HTTPParams) (*CallbackServer, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = params.ErrorMiddleware.HandleHTTPError
	echoServer.Use(echomiddleware.Recover())

	router.NewRouter(params.RouterParams).RegisterRoutes(echoServer)

	srv := &CallbackServer{
		cfg:    params.Config.Payment.Callback,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Listen binds the listener so the callback URLs are known before the
// payment is initialised. Port 0 picks a free port.
func (s *CallbackServer) Listen() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseURL != "" {
		return s.baseURL, nil
	}

	host := s.cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return "", errors.Wrap(err, "failed to bind callback listener")
	}
	s.server.Listener = ln

	port := ln.Addr().(*net.TCPAddr).Port
	s.baseURL = "http://" + net.JoinHostPort(host, strconv.Itoa(port))

	return s.baseURL, nil
}

// CallbackURL is where the gateway sends the payer after paying.
func (s *CallbackServer) CallbackURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.baseURL + router.PathPaymentCallback
}

// CancelURL is where the gateway sends the payer after cancelling.
func (s *CallbackServer) CancelURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.baseURL + router.PathPaymentCancel
}

// Serve runs until ctx is done or the listener fails.
func (s *CallbackServer) Serve(ctx context.Context) error {
	baseURL, err := s.Listen()
	if err != nil {
		return err
	}
	s.logger.Debug("Starting callback server", slog.String("url", baseURL))

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.stop(context.WithoutCancel(ctx))
		case <-stopped:
		}
	}()

	if err := s.server.Start(""); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve callbacks")
	}

	return nil
}

func (s *CallbackServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.logger.Debug("Shutting down callback server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
