package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/pkg/errors"
)

func runCheckout(ctx context.Context, deps *app, args []string, out io.Writer) error {
	fs := newFlagSet("checkout")
	fields := bindFormFlags(fs)
	qrPath := fs.String("qr", "", "Also write the payment link QR code to this PNG file")
	noQR := fs.Bool("no-qr", false, "Do not print the payment link QR code")
	retries := fs.Int("retries", 0, "Retry a failed payment this many times against the same order")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse checkout flags")
	}

	start := time.Now()

	// 1. Collect delivery details, saved ones first
	form, err := deps.Account.PrefillCheckoutForm(ctx)
	if err != nil {
		return err
	}
	form = fields.apply(form)

	// 2. Make sure the quote reflects the store's cart
	if err := deps.Cart.Fetch(ctx); err != nil {
		return err
	}

	// 3. Bind the callback listener so its URLs can go into the payment
	if _, err := deps.Callback.Listen(); err != nil {
		return err
	}
	callbacks := usecase.GatewayCallbacks{
		Success: deps.Callback.CallbackURL(),
		Cancel:  deps.Callback.CancelURL(),
	}

	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()
	go func() {
		if err := deps.Callback.Serve(serveCtx); err != nil {
			deps.Logger.Error("Callback server stopped", slog.Any("error", err))
		}
	}()

	// 4. Create the order and open the payment
	attempt, err := deps.Checkout.Begin(ctx, form, callbacks)
	if err != nil {
		return err
	}

	for try := 0; ; try++ {
		if err := presentPayment(deps, attempt, *qrPath, !*noQR, out); err != nil {
			return err
		}

		// 5. Wait for the payer to come back through the gateway
		attempt, err = awaitPayment(ctx, deps, out)
		if err == nil || attempt == nil || attempt.State != entity.CheckoutStatePaymentFailed || try >= *retries {
			break
		}

		fmt.Fprintf(out, "Payment failed: %s. Retrying (%d/%d)\n", domainerrors.UserMessage(err), try+1, *retries)
		if attempt, err = deps.Checkout.RetryPayment(ctx, callbacks); err != nil {
			return err
		}
	}

	printCheckoutResult(out, deps.Config.Checkout.CurrencySymbol, attempt, time.Since(start))

	return err
}

// awaitPayment blocks until a gateway event settles the attempt. Callbacks for
// another reference are ignored, and a payment the store still reports as
// pending is verified once more.
func awaitPayment(ctx context.Context, deps *app, out io.Writer) (*entity.CheckoutAttempt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, deps.Config.Payment.Callback.Timeout)
	defer cancel()

	fmt.Fprintf(out, "Waiting for the payment to complete (up to %s)...\n", util.FormatDuration(deps.Config.Payment.Callback.Timeout))

	for {
		attempt, err := deps.Checkout.AwaitGatewayEvent(waitCtx)
		if errors.Is(err, domainerrors.ErrPaymentReferenceMismatch) {
			deps.Logger.Warn("Ignoring callback for another payment", slog.Any("error", err))

			continue
		}

		switch {
		case attempt == nil:
			return nil, err
		case attempt.State == entity.CheckoutStatePaymentInitialized && errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			// Nobody came back: the payer walked away from the page
			deps.Logger.Info("Gateway callback timed out, abandoning checkout")

			return deps.Checkout.Abandon(ctx)
		case attempt.State == entity.CheckoutStatePaymentVerifying && ctx.Err() == nil:
			fmt.Fprintln(out, "The store has not confirmed the payment yet, checking again...")

			return deps.Checkout.Reverify(ctx)
		}

		return attempt, err
	}
}

func presentPayment(deps *app, attempt *entity.CheckoutAttempt, qrPath string, showQR bool, out io.Writer) error {
	symbol := deps.Config.Checkout.CurrencySymbol

	fmt.Fprintf(out, "Order %s\n", attempt.OrderID)
	fmt.Fprintf(out, "  Subtotal:  %s\n", util.FormatAmount(symbol, attempt.Subtotal))
	fmt.Fprintf(out, "  Delivery:  %s\n", util.FormatAmount(symbol, attempt.DeliveryFee))
	fmt.Fprintf(out, "  Total:     %s\n", util.FormatAmount(symbol, attempt.TotalAmount))
	fmt.Fprintf(out, "  Reference: %s\n", attempt.Reference)

	if attempt.AuthorizationURL == "" {
		fmt.Fprintln(out, "The gateway did not return a payment page; complete the payment in the store and it will be picked up here.")

		return nil
	}
	fmt.Fprintf(out, "\nPay here: %s\n", attempt.AuthorizationURL)

	if showQR {
		art, err := deps.QRCode.PaymentLinkTerminal(attempt.AuthorizationURL)
		if err != nil {
			deps.Logger.Warn("Failed to render payment QR code", slog.Any("error", err))
		} else {
			fmt.Fprintln(out, art)
		}
	}

	if qrPath != "" {
		png, err := deps.QRCode.PaymentLinkPNG(attempt.AuthorizationURL)
		if err != nil {
			return errors.Wrap(err, "failed to render payment QR code")
		}
		if err := os.WriteFile(qrPath, png, 0o600); err != nil {
			return errors.Wrapf(err, "failed to write %s", qrPath)
		}
		fmt.Fprintf(out, "QR code written to %s\n", qrPath)
	}

	return nil
}
