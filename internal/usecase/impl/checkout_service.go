package impl

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// Field order in entity.CheckoutForm decides which message wins.
var checkoutMessages = validationMessages{
	"FirstName": "please enter your full name",
	"LastName":  "please enter your full name",
	"Address":   "please complete your delivery address",
	"City":      "please complete your delivery address",
	"ZipCode":   "please complete your delivery address",
	"Mobile":    "please enter your mobile number",
	"Email":     "please enter your email address",
}

// CheckoutServiceParams holds dependencies for the checkout service, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	Orders   service.OrderAPI
	Payments service.PaymentAPI
	Cart     usecase.CartUsecase
	Session  usecase.SessionUsecase
	Bus      service.GatewayEventBus
	Config   *config.Config
	Logger   *slog.Logger
}

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	orders   service.OrderAPI
	payments service.PaymentAPI
	cart     usecase.CartUsecase
	session  usecase.SessionUsecase
	bus      service.GatewayEventBus
	checkout config.CheckoutConfig
	payment  config.PaymentConfig
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time

	// opMu is held for the whole of an operation on the attempt, network calls included
	opMu sync.Mutex

	// mu guards attempt
	mu      sync.RWMutex
	attempt *entity.CheckoutAttempt
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	return &checkoutService{
		orders:   params.Orders,
		payments: params.Payments,
		cart:     params.Cart,
		session:  params.Session,
		bus:      params.Bus,
		checkout: params.Config.Checkout,
		payment:  params.Config.Payment,
		logger:   params.Logger,
		validate: newValidator(),
		now:      time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *checkoutService) Quote() usecase.CheckoutQuote {
	items := srv.cart.Items()

	return srv.quote(items)
}

// quote prices items. Delivery is free above the threshold, otherwise a flat
// fee is charged per cart line.
func (srv *checkoutService) quote(items []*entity.CartItem) usecase.CheckoutQuote {
	subtotal := entity.CartTotal(items)

	fee := decimal.Zero
	if !subtotal.GreaterThan(srv.checkout.FreeShippingThresholdAmount()) {
		fee = srv.checkout.PerItemDeliveryFeeAmount().Mul(decimal.NewFromInt(int64(len(items))))
	}
	total := subtotal.Add(fee)

	return usecase.CheckoutQuote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
		AmountMinor: total.Mul(decimal.NewFromInt(srv.checkout.MinorUnitFactor)).Round(0).IntPart(),
		LineCount:   len(items),
		ItemCount:   entity.CartCount(items),
	}
}

func (srv *checkoutService) Begin(ctx context.Context, form entity.CheckoutForm, callbacks usecase.GatewayCallbacks) (*entity.CheckoutAttempt, error) {
	if !srv.session.IsAuthenticated() {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	if current := srv.Current(); current != nil && current.OrderID != "" && !current.State.IsTerminal() &&
		current.State != entity.CheckoutStatePaymentFailed {
		return nil, errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails(
			"a checkout is already in progress for order " + current.OrderID + ", retry its payment or abandon it"))
	}

	// 1. Validate synchronously, no network call before this passes
	form = form.Normalize()
	if err := validateStruct(srv.validate, form, checkoutMessages); err != nil {
		return nil, err
	}
	items := srv.cart.Items()
	if len(items) == 0 {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("your cart is empty"))
	}
	if srv.payment.PublicKey == "" {
		return nil, errors.WithStack(domainerrors.ErrGatewayNotConfigured)
	}

	now := srv.now()
	attempt := entity.NewCheckoutAttempt(form, now)
	quote := srv.quote(items)
	if err := attempt.TransitionTo(entity.CheckoutStateFormValid, now); err != nil {
		return nil, err
	}
	attempt.Subtotal = quote.Subtotal
	attempt.DeliveryFee = quote.DeliveryFee
	attempt.TotalAmount = quote.Total
	attempt.AmountMinor = quote.AmountMinor
	attempt.ItemCount = quote.ItemCount
	srv.setAttempt(attempt)

	logger := srv.log(ctx).With(slog.String("attempt_id", attempt.ID.String()))

	// 2. Create the pending order; failure ends the attempt with the cart untouched
	order, err := srv.orders.CreateOrder(ctx, &entity.OrderRequest{
		ShippingAddress: entity.ShippingAddress{
			Name:    form.FullName(),
			Address: form.Address,
			City:    form.City,
			State:   form.City,
			Zip:     form.ZipCode,
			Country: srv.checkout.Country,
		},
		PhoneNumber:   form.Mobile,
		PaymentMethod: srv.checkout.PaymentMethod,
		DeliveryFee:   quote.DeliveryFee,
		TotalAmount:   quote.Total,
		PaymentStatus: entity.PaymentStatusPending,
	})
	if err != nil {
		logger.Error("Failed to create order", slog.Any("error", err))
		if tErr := srv.transition(attempt, entity.CheckoutStatePaymentAbandoned, func(a *entity.CheckoutAttempt) {
			a.FailureReason = err.Error()
		}); tErr != nil {
			return srv.Current(), tErr
		}

		return srv.Current(), errors.Wrap(err, "failed to create order")
	}

	if err := srv.transition(attempt, entity.CheckoutStateOrderCreated, func(a *entity.CheckoutAttempt) {
		a.OrderID = order.ID
		a.Reference = entity.NewPaymentReference(srv.now())
	}); err != nil {
		return srv.Current(), err
	}
	logger.Info("Pending order created", slog.String("order_id", order.ID))

	// 3. Initialise the payment
	return srv.initializePayment(ctx, attempt, callbacks)
}

func (srv *checkoutService) RetryPayment(ctx context.Context, callbacks usecase.GatewayCallbacks) (*entity.CheckoutAttempt, error) {
	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	attempt := srv.currentAttempt()
	if attempt == nil {
		return nil, errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails("no checkout to retry"))
	}

	switch srv.stateOf(attempt) {
	case entity.CheckoutStateOrderCreated:
		// Same attempt, same reference
	case entity.CheckoutStatePaymentFailed:
		// A failed reference is never reused
		srv.update(attempt, func(a *entity.CheckoutAttempt) {
			a.Reference = entity.NewPaymentReference(srv.now())
			a.Verification = nil
		})
	default:
		return srv.Current(), errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails(
			"payment can only be retried after it failed or could not be initialised"))
	}

	return srv.initializePayment(ctx, attempt, callbacks)
}

// initializePayment opens the gateway transaction. On failure the attempt
// stays where it was.
func (srv *checkoutService) initializePayment(ctx context.Context, attempt *entity.CheckoutAttempt, callbacks usecase.GatewayCallbacks) (*entity.CheckoutAttempt, error) {
	snapshot := srv.Current()

	metadata := map[string]string{
		"customerName": snapshot.Form.FullName(),
		"phoneNumber":  snapshot.Form.Mobile,
		"orderId":      snapshot.OrderID,
	}
	if callbacks.Cancel != "" {
		metadata["cancel_action"] = callbacks.Cancel
	}

	session, err := srv.payments.InitializePayment(ctx, &entity.PaymentInit{
		Amount:      snapshot.AmountMinor,
		Email:       snapshot.Form.Email,
		OrderID:     snapshot.OrderID,
		Reference:   snapshot.Reference,
		CallbackURL: callbacks.Success,
		Metadata:    metadata,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to initialise payment",
			slog.String("order_id", snapshot.OrderID),
			slog.String("reference", snapshot.Reference),
			slog.Any("error", err),
		)
		srv.update(attempt, func(a *entity.CheckoutAttempt) { a.FailureReason = err.Error() })

		return srv.Current(), errors.Wrap(err, "failed to initialize payment")
	}

	if err := srv.transition(attempt, entity.CheckoutStatePaymentInitialized, func(a *entity.CheckoutAttempt) {
		a.AuthorizationURL = session.AuthorizationURL
		a.FailureReason = ""
	}); err != nil {
		return srv.Current(), err
	}
	srv.log(ctx).Info("Payment initialised",
		slog.String("order_id", snapshot.OrderID),
		slog.String("reference", snapshot.Reference),
	)

	return srv.Current(), nil
}

func (srv *checkoutService) AwaitGatewayEvent(ctx context.Context) (*entity.CheckoutAttempt, error) {
	event, err := srv.bus.Await(ctx)
	if err != nil {
		return srv.Current(), errors.Wrap(err, "failed to receive gateway callback")
	}

	return srv.HandleGatewayEvent(ctx, event)
}

func (srv *checkoutService) HandleGatewayEvent(ctx context.Context, event entity.GatewayEvent) (*entity.CheckoutAttempt, error) {
	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	attempt := srv.currentAttempt()
	if attempt == nil {
		return nil, errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails("no checkout is waiting for the gateway"))
	}
	snapshot := srv.Current()

	// A reference, when present, must be the one this attempt generated
	if event.Reference != "" && event.Reference != snapshot.Reference {
		srv.log(ctx).Warn("Gateway reference does not match checkout",
			slog.String("expected", snapshot.Reference),
			slog.String("got", event.Reference),
		)

		return snapshot, errors.WithStack(domainerrors.ErrPaymentReferenceMismatch.WithDetails(event.Reference))
	}

	switch event.Kind {
	case entity.GatewayEventClosed:
		return srv.abandonLocked(ctx, attempt, "payment window closed")

	case entity.GatewayEventSuccess:
		if event.Reference == "" {
			return snapshot, errors.WithStack(domainerrors.ErrPaymentReferenceMismatch.WithDetails("missing reference"))
		}
		if err := srv.transition(attempt, entity.CheckoutStatePaymentVerifying, nil); err != nil {
			return srv.Current(), err
		}

		return srv.verifyLocked(ctx, attempt)

	default:
		return snapshot, errors.Errorf("unknown gateway event %q", event.Kind)
	}
}

func (srv *checkoutService) Reverify(ctx context.Context) (*entity.CheckoutAttempt, error) {
	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	attempt := srv.currentAttempt()
	if attempt == nil || srv.stateOf(attempt) != entity.CheckoutStatePaymentVerifying {
		return srv.Current(), errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails("no payment is awaiting verification"))
	}

	return srv.verifyLocked(ctx, attempt)
}

// verifyLocked confirms the payment with the store. A transport error or a
// status that stays pending leaves the attempt at PaymentVerifying so it can
// be verified again or abandoned; a rejected verify call or any other
// non-success status fails it.
func (srv *checkoutService) verifyLocked(ctx context.Context, attempt *entity.CheckoutAttempt) (*entity.CheckoutAttempt, error) {
	snapshot := srv.Current()
	logger := srv.log(ctx).With(
		slog.String("order_id", snapshot.OrderID),
		slog.String("reference", snapshot.Reference),
	)

	// 1. Poll while the gateway reports the payment as in progress
	verification, err := srv.pollVerification(ctx, snapshot.Reference)
	if err != nil {
		logger.Error("Payment verification call failed", slog.Any("error", err))
		if !verificationRejected(err) {
			srv.update(attempt, func(a *entity.CheckoutAttempt) { a.FailureReason = err.Error() })

			return srv.Current(), errors.Wrap(err, "failed to verify payment")
		}

		if tErr := srv.transition(attempt, entity.CheckoutStatePaymentFailed, func(a *entity.CheckoutAttempt) {
			a.FailureReason = domainerrors.UserMessage(err)
		}); tErr != nil {
			return srv.Current(), tErr
		}

		return srv.Current(), errors.WithStack(domainerrors.ErrPaymentVerification.WithDetails(domainerrors.UserMessage(err)))
	}

	if verification.IsPending() {
		srv.update(attempt, func(a *entity.CheckoutAttempt) {
			a.Verification = verification
			a.FailureReason = "payment is still " + verification.Status
		})

		return srv.Current(), errors.WithStack(domainerrors.ErrPaymentVerification.WithDetails("payment is still " + verification.Status))
	}

	// 2. Anything but success fails the attempt; the cart stays
	if !verification.IsSuccessful() {
		reason := "payment status " + verification.Status
		if err := srv.transition(attempt, entity.CheckoutStatePaymentFailed, func(a *entity.CheckoutAttempt) {
			a.Verification = verification
			a.FailureReason = reason
		}); err != nil {
			return srv.Current(), err
		}
		logger.Warn("Payment not confirmed", slog.String("status", verification.Status))

		return srv.Current(), errors.WithStack(domainerrors.ErrPaymentVerification.WithDetails(reason))
	}

	if err := srv.transition(attempt, entity.CheckoutStatePaymentSucceeded, func(a *entity.CheckoutAttempt) {
		a.Verification = verification
		a.FailureReason = ""
	}); err != nil {
		return srv.Current(), err
	}
	logger.Info("Payment confirmed")

	// 3. The order is paid; a cart that fails to clear is only reported
	if err := srv.cart.Clear(ctx); err != nil {
		logger.Warn("Failed to clear cart after payment", slog.Any("error", err))
	}

	return srv.Current(), nil
}

// verificationRejected reports whether the store answered the verify call
// with a client error that asking again will not change.
func verificationRejected(err error) bool {
	var apiErr *domainerrors.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch status := apiErr.HTTPCode(); status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	default:
		return status >= http.StatusBadRequest && status < http.StatusInternalServerError
	}
}

func (srv *checkoutService) pollVerification(ctx context.Context, reference string) (*entity.PaymentVerification, error) {
	maxAttempts := max(srv.payment.Verify.MaxAttempts, 1)

	var verification *entity.PaymentVerification
	for i := 1; i <= maxAttempts; i++ {
		var err error
		verification, err = srv.payments.VerifyPayment(ctx, reference)
		if err != nil {
			return nil, err
		}
		if !verification.IsPending() || i == maxAttempts {
			break
		}

		timer := time.NewTimer(srv.payment.Verify.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil, errors.Wrap(ctx.Err(), "verification interrupted")
		case <-timer.C:
		}
	}

	return verification, nil
}

func (srv *checkoutService) Abandon(ctx context.Context) (*entity.CheckoutAttempt, error) {
	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	attempt := srv.currentAttempt()
	if attempt == nil {
		return nil, errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails("no checkout to abandon"))
	}

	return srv.abandonLocked(ctx, attempt, "abandoned by customer")
}

// abandonLocked ends the attempt. The order, if any, stays pending at the store.
func (srv *checkoutService) abandonLocked(ctx context.Context, attempt *entity.CheckoutAttempt, reason string) (*entity.CheckoutAttempt, error) {
	if err := srv.transition(attempt, entity.CheckoutStatePaymentAbandoned, func(a *entity.CheckoutAttempt) {
		a.FailureReason = reason
	}); err != nil {
		return srv.Current(), err
	}
	srv.log(ctx).Info("Checkout abandoned", slog.String("order_id", attempt.OrderID), slog.String("reason", reason))

	return srv.Current(), nil
}

func (srv *checkoutService) CancelOrder(ctx context.Context, orderID string) error {
	// An order owned by the current attempt may only be cancelled while no
	// operation on it is in flight, and never during verification
	if current := srv.Current(); current != nil && current.OrderID == orderID {
		if !srv.opMu.TryLock() {
			return errors.WithStack(domainerrors.ErrOrderBusy.WithDetails(orderID))
		}
		defer srv.opMu.Unlock()

		attempt := srv.currentAttempt()
		if srv.stateOf(attempt) == entity.CheckoutStatePaymentVerifying {
			return errors.WithStack(domainerrors.ErrOrderBusy.WithDetails(orderID))
		}

		if err := srv.orders.CancelOrder(ctx, orderID); err != nil {
			return errors.Wrap(err, "failed to cancel order")
		}
		if attempt.State.CanTransitionTo(entity.CheckoutStatePaymentAbandoned) {
			_, _ = srv.abandonLocked(ctx, attempt, "order cancelled")
		}

		return nil
	}

	return errors.Wrap(srv.orders.CancelOrder(ctx, orderID), "failed to cancel order")
}

func (srv *checkoutService) Current() *entity.CheckoutAttempt {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if srv.attempt == nil {
		return nil
	}
	clone := *srv.attempt

	return &clone
}

func (srv *checkoutService) currentAttempt() *entity.CheckoutAttempt {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.attempt
}

func (srv *checkoutService) stateOf(attempt *entity.CheckoutAttempt) entity.CheckoutState {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return attempt.State
}

func (srv *checkoutService) setAttempt(attempt *entity.CheckoutAttempt) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.attempt = attempt
}

// transition moves attempt to next and applies mutate, atomically.
func (srv *checkoutService) transition(attempt *entity.CheckoutAttempt, next entity.CheckoutState, mutate func(a *entity.CheckoutAttempt)) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.attempt != attempt {
		return errors.WithStack(domainerrors.ErrIllegalTransition.WithDetails("checkout attempt was replaced"))
	}
	if err := attempt.TransitionTo(next, srv.now()); err != nil {
		return err
	}
	if mutate != nil {
		mutate(attempt)
	}

	return nil
}

// update applies mutate without changing state.
func (srv *checkoutService) update(attempt *entity.CheckoutAttempt, mutate func(a *entity.CheckoutAttempt)) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	mutate(attempt)
	attempt.UpdatedAt = srv.now()
}
