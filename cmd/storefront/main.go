package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storefront/config"
	deliveryhttp "storefront/internal/delivery/http"
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/api"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/gateway"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/qrcode"
	"storefront/internal/infra/tokenstore"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// app is everything a subcommand can reach.
type app struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	API      service.StorefrontAPI
	QRCode   service.QRCodeService
	Callback *deliveryhttp.CallbackServer
	Session  usecase.SessionUsecase
	Cart     usecase.CartUsecase
	Checkout usecase.CheckoutUsecase
	Catalog  usecase.CatalogUsecase
	Orders   usecase.OrderUsecase
	Payments usecase.PaymentUsecase
	Account  usecase.AccountUsecase
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domainerrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, name string, args []string, out io.Writer) error {
	cmd, ok := lookupCommand(name)
	if !ok {
		printUsage(os.Stderr)

		return errors.Errorf("unknown command %q", name)
	}

	var deps app
	fxApp := fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.WithLogger(newFxLogger),
		fx.Invoke(
			bindSessionExpiry,
			func(a app) { deps = a },
		),
	)
	if err := fxApp.Err(); err != nil {
		return errors.Wrap(err, "failed to build application")
	}

	if err := fxApp.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start application")
	}
	defer func() {
		if err := fxApp.Stop(context.WithoutCancel(ctx)); err != nil {
			deps.Logger.Warn("Failed to stop cleanly", slog.Any("error", err))
		}
	}()

	// Restore the signed-in identity before any command runs
	if err := deps.Session.Initialize(ctx); err != nil {
		return err
	}

	return cmd.run(ctx, &deps, args, out)
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			newLogger,
			context.Background,
			fx.Annotate(
				api.New,
				fx.As(new(service.StorefrontAPI)),
				fx.As(new(service.AuthAPI)),
				fx.As(new(service.CatalogAPI)),
				fx.As(new(service.CartAPI)),
				fx.As(new(service.OrderAPI)),
				fx.As(new(service.PaymentAPI)),
				fx.As(new(service.DeliveryAPI)),
			),
		),
		tokenstore.Module,
		gateway.Module,
	)
}

// newLogger keeps the logger off stdout, which carries command output.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logs.New(logs.Params{Config: cfg, Output: os.Stderr})
}

func newFxLogger(cfg *config.Config, logger *slog.Logger) fxevent.Logger {
	if !cfg.Env.Debug {
		return fxevent.NopLogger
	}

	return &fxevent.SlogLogger{Logger: logger}
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewClaimsInspector,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			impl.NewCartService,
			impl.NewCheckoutService,
			impl.NewCatalogService,
			impl.NewOrderService,
			impl.NewPaymentService,
			impl.NewAccountService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPaymentHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			deliveryhttp.NewServer,
		),
	)
}

// bindSessionExpiry drops the identity when the API client gives up on refreshing.
func bindSessionExpiry(client service.StorefrontAPI, session usecase.SessionUsecase) {
	client.OnSessionExpired(session.Expire)
}
