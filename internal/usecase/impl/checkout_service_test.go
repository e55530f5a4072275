package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/gateway"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testForm = entity.CheckoutForm{
	FirstName: "Ada",
	LastName:  "Lovelace",
	Address:   "12 Marina Road",
	City:      "Lagos",
	ZipCode:   "100001",
	Mobile:    "+2348000000000",
	Email:     "ada@example.com",
}

var testCallbacks = usecase.GatewayCallbacks{
	Success: "http://127.0.0.1:4000/payment/callback",
	Cancel:  "http://127.0.0.1:4000/payment/cancel",
}

type checkoutFixture struct {
	store    *fakeStore
	cart     usecase.CartUsecase
	checkout *checkoutService
	bus      *gateway.Dispatcher
}

func newCheckoutFixture(t *testing.T, cfg *config.Config, lines ...*usecase.AddToCartInput) *checkoutFixture {
	t.Helper()

	store := newFakeStore()
	cart, session := newTestCart(t, store)
	for _, line := range lines {
		require.NoError(t, cart.Add(context.Background(), line))
	}

	bus := gateway.NewDispatcher(newDiscardLogger())
	t.Cleanup(func() { _ = bus.Close() })

	checkout := NewCheckoutService(CheckoutServiceParams{
		Orders:   store,
		Payments: store,
		Cart:     cart,
		Session:  session,
		Bus:      bus,
		Config:   cfg,
		Logger:   newDiscardLogger(),
	}).(*checkoutService)

	return &checkoutFixture{store: store, cart: cart, checkout: checkout, bus: bus}
}

func TestCheckoutService_Quote_BelowThreshold(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10000))

	quote := f.checkout.Quote()

	assert.Equal(t, "10000", quote.Subtotal.String())
	assert.Equal(t, "500", quote.DeliveryFee.String())
	assert.Equal(t, "10500", quote.Total.String())
	assert.Equal(t, int64(1050000), quote.AmountMinor)
	assert.Equal(t, 1, quote.LineCount)
}

func TestCheckoutService_Quote_FeeIsPerLine(t *testing.T) {
	second := addBlackM(20)
	second.ProductID = "B"
	second.Quantity = 3
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10), second)

	quote := f.checkout.Quote()

	assert.Equal(t, "1000", quote.DeliveryFee.String())
	assert.Equal(t, 4, quote.ItemCount)
}

func TestCheckoutService_Quote_FreeAboveThreshold(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(100001))

	quote := f.checkout.Quote()

	assert.True(t, quote.DeliveryFee.IsZero())
	assert.Equal(t, "100001", quote.Total.String())
}

func TestCheckoutService_Quote_ThresholdItselfIsCharged(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(100000))

	assert.Equal(t, "500", f.checkout.Quote().DeliveryFee.String())
}

func TestCheckoutService_Begin_EmptyCartNeverCreatesOrder(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig())

	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)

	require.Error(t, err)
	assert.Nil(t, attempt)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Equal(t, "your cart is empty", domainerrors.UserMessage(err))
	assert.Zero(t, f.store.callCount("CreateOrder"))
}

func TestCheckoutService_Begin_ReportsFirstViolation(t *testing.T) {
	tests := []struct {
		name string
		edit func(form *entity.CheckoutForm)
		want string
	}{
		{name: "name before mobile", edit: func(form *entity.CheckoutForm) { form.LastName = " "; form.Mobile = "" }, want: "please enter your full name"},
		{name: "address", edit: func(form *entity.CheckoutForm) { form.ZipCode = "" }, want: "please complete your delivery address"},
		{name: "mobile before email", edit: func(form *entity.CheckoutForm) { form.Mobile = ""; form.Email = "" }, want: "please enter your mobile number"},
		{name: "email", edit: func(form *entity.CheckoutForm) { form.Email = "" }, want: "please enter your email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
			form := testForm
			tt.edit(&form)

			_, err := f.checkout.Begin(context.Background(), form, testCallbacks)

			require.Error(t, err)
			assert.Equal(t, tt.want, domainerrors.UserMessage(err))
			assert.Zero(t, f.store.callCount("CreateOrder"))
		})
	}
}

func TestCheckoutService_Begin_GatewayNotConfigured(t *testing.T) {
	cfg := newTestConfig()
	cfg.Payment.PublicKey = ""
	f := newCheckoutFixture(t, cfg, addBlackM(10))

	_, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)

	assert.True(t, errors.Is(err, domainerrors.ErrGatewayNotConfigured))
	assert.Zero(t, f.store.callCount("CreateOrder"))
}

func TestCheckoutService_Begin_CreatesPendingOrderAndInitialisesPayment(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10000))

	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentInitialized, attempt.State)
	assert.Equal(t, "order-1", attempt.OrderID)
	assert.True(t, strings.HasPrefix(attempt.Reference, "ORDER_"))
	assert.Equal(t, "https://checkout.example.com/"+attempt.Reference, attempt.AuthorizationURL)

	order := f.store.lastOrder
	require.NotNil(t, order)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "Ada Lovelace", order.ShippingAddress.Name)
	assert.Equal(t, "Lagos", order.ShippingAddress.State)
	assert.Equal(t, "Nigeria", order.ShippingAddress.Country)
	assert.Equal(t, "500", order.DeliveryFee.String())
	assert.Equal(t, "10500", order.TotalAmount.String())

	require.Len(t, f.store.inits, 1)
	req := f.store.inits[0]
	assert.Equal(t, int64(1050000), req.Amount)
	assert.Equal(t, "order-1", req.OrderID)
	assert.Equal(t, attempt.Reference, req.Reference)
	assert.Equal(t, testCallbacks.Success, req.CallbackURL)
	assert.Equal(t, testCallbacks.Cancel, req.Metadata["cancel_action"])
	assert.Equal(t, "Ada Lovelace", req.Metadata["customerName"])
}

func TestCheckoutService_Begin_OrderFailureLeavesCartUntouched(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.createOrderErr = domainerrors.NewAPIError(500, "POST", "orders/checkout", "database unavailable")

	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)

	require.Error(t, err)
	assert.Equal(t, entity.CheckoutStatePaymentAbandoned, attempt.State)
	assert.Contains(t, attempt.FailureReason, "database unavailable")
	assert.Empty(t, attempt.OrderID)
	assert.Zero(t, f.store.callCount("InitializePayment"))
	assert.Len(t, f.cart.Items(), 1)

	// No order exists, so checkout can start over
	f.store.createOrderErr = nil
	attempt, err = f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatePaymentInitialized, attempt.State)
}

func TestCheckoutService_InitFailure_RetryReusesReference(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.initErr = domainerrors.NewNetworkError(context.DeadlineExceeded, "payment/initialize-payment")

	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.Error(t, err)
	assert.Equal(t, entity.CheckoutStateOrderCreated, attempt.State)
	reference := attempt.Reference

	f.store.initErr = nil
	attempt, err = f.checkout.RetryPayment(context.Background(), testCallbacks)
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentInitialized, attempt.State)
	assert.Equal(t, reference, attempt.Reference)
	assert.Equal(t, 1, f.store.callCount("CreateOrder"))
	assert.Zero(t, f.store.callCount("CancelOrder"))
}

func TestCheckoutService_Begin_RefusedWhileInProgress(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	_, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	_, err = f.checkout.Begin(context.Background(), testForm, testCallbacks)

	assert.True(t, errors.Is(err, domainerrors.ErrIllegalTransition))
	assert.Equal(t, 1, f.store.callCount("CreateOrder"))
}

func TestCheckoutService_GatewaySuccess_VerifiesAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{
		Kind:      entity.GatewayEventSuccess,
		Reference: attempt.Reference,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentSucceeded, attempt.State)
	assert.True(t, attempt.Verification.IsSuccessful())
	assert.Empty(t, f.cart.Items())
	assert.Equal(t, []string{attempt.Reference}, f.store.verified)
}

func TestCheckoutService_VerifyFailed_KeepsCartAndPendingOrder(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{{Status: entity.VerificationStatusFailed}}
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{
		Kind:      entity.GatewayEventSuccess,
		Reference: attempt.Reference,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentVerification))
	assert.Equal(t, entity.CheckoutStatePaymentFailed, attempt.State)
	assert.Len(t, f.cart.Items(), 1)
	assert.True(t, f.store.orders[attempt.OrderID].IsPending())
	assert.Zero(t, f.store.callCount("ClearCart"))
}

func TestCheckoutService_RetryAfterFailure_UsesNewReference(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{{Status: entity.VerificationStatusFailed}}
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)
	failedRef := attempt.Reference
	_, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: failedRef})
	require.Error(t, err)

	attempt, err = f.checkout.RetryPayment(context.Background(), testCallbacks)
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentInitialized, attempt.State)
	assert.NotEqual(t, failedRef, attempt.Reference)
	assert.Equal(t, "order-1", attempt.OrderID)
	require.Len(t, f.store.inits, 2)
	assert.Equal(t, attempt.Reference, f.store.inits[1].Reference)
}

func TestCheckoutService_BeginAfterFailure_StartsNewAttempt(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{{Status: entity.VerificationStatusFailed}}
	first, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)
	_, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: first.Reference})
	require.Error(t, err)

	second, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Reference, second.Reference)
}

func TestCheckoutService_ReferenceMismatch_LeavesStateUnchanged(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	_, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	attempt, err := f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{
		Kind:      entity.GatewayEventSuccess,
		Reference: "ORDER_0_someoneelse",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrPaymentReferenceMismatch))
	assert.Equal(t, entity.CheckoutStatePaymentInitialized, attempt.State)
	assert.Zero(t, f.store.callCount("VerifyPayment"))
}

func TestCheckoutService_GatewayClosed_Abandons(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	_, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	attempt, err := f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventClosed})
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentAbandoned, attempt.State)
	assert.True(t, f.store.orders[attempt.OrderID].IsPending())
	assert.Len(t, f.cart.Items(), 1)
	assert.Zero(t, f.store.callCount("CancelOrder"))
}

func TestCheckoutService_PollsWhilePending(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{
		{Status: "pending"},
		{Status: "ongoing"},
		{Status: entity.VerificationStatusSuccess, Amount: decimal.NewFromInt(1050)},
	}
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentSucceeded, attempt.State)
	assert.Equal(t, 3, f.store.callCount("VerifyPayment"))
}

func TestCheckoutService_StillPending_CanReverify(t *testing.T) {
	cfg := newTestConfig()
	cfg.Payment.Verify.MaxAttempts = 2
	f := newCheckoutFixture(t, cfg, addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{{Status: "pending"}, {Status: "pending"}, {Status: "success"}}
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
	require.Error(t, err)
	assert.Equal(t, entity.CheckoutStatePaymentVerifying, attempt.State)
	assert.Len(t, f.cart.Items(), 1)

	attempt, err = f.checkout.Reverify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatePaymentSucceeded, attempt.State)
}

func TestCheckoutService_CancelOrder_RefusedWhileVerifying(t *testing.T) {
	cfg := newTestConfig()
	cfg.Payment.Verify.MaxAttempts = 1
	f := newCheckoutFixture(t, cfg, addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{{Status: "pending"}}
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)
	_, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
	require.Error(t, err)

	err = f.checkout.CancelOrder(context.Background(), attempt.OrderID)

	assert.True(t, errors.Is(err, domainerrors.ErrOrderBusy))
	assert.Zero(t, f.store.callCount("CancelOrder"))
}

func TestCheckoutService_CancelOrder_AbandonsAttempt(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	require.NoError(t, f.checkout.CancelOrder(context.Background(), attempt.OrderID))

	assert.Equal(t, []string{attempt.OrderID}, f.store.cancelled)
	assert.Equal(t, entity.CheckoutStatePaymentAbandoned, f.checkout.Current().State)
}

func TestCheckoutService_CancelOrder_OtherOrderIsForwarded(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))

	require.NoError(t, f.checkout.CancelOrder(context.Background(), "order-old"))

	assert.Equal(t, []string{"order-old"}, f.store.cancelled)
	assert.Nil(t, f.checkout.Current())
}

func TestCheckoutService_AwaitGatewayEvent(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.bus.Publish(ctx, entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	attempt, err = f.checkout.AwaitGatewayEvent(ctx)
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentSucceeded, attempt.State)
}

func TestCheckoutService_Abandon_WhileVerificationPending(t *testing.T) {
	cfg := newTestConfig()
	cfg.Payment.Verify.MaxAttempts = 1
	f := newCheckoutFixture(t, cfg, addBlackM(10))
	f.store.verifications = []*entity.PaymentVerification{{Status: "pending"}}
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)
	_, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
	require.Error(t, err)

	attempt, err = f.checkout.Abandon(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStatePaymentAbandoned, attempt.State)
	assert.True(t, f.store.orders[attempt.OrderID].IsPending())
	assert.Len(t, f.cart.Items(), 1)
}

func TestCheckoutService_VerifyRejected_FailsAttempt(t *testing.T) {
	f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
	f.store.verifyErr = domainerrors.NewAPIError(400, "GET", "payment/verify/ORDER_1", "Transaction reference not found")
	attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
	require.NoError(t, err)
	rejectedRef := attempt.Reference

	attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: rejectedRef})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentVerification))
	assert.Equal(t, entity.CheckoutStatePaymentFailed, attempt.State)
	assert.Equal(t, "Transaction reference not found", attempt.FailureReason)
	assert.Len(t, f.cart.Items(), 1)
	assert.Zero(t, f.store.callCount("ClearCart"))

	// The failed payment can be retried under a fresh reference
	f.store.verifyErr = nil
	attempt, err = f.checkout.RetryPayment(context.Background(), testCallbacks)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatePaymentInitialized, attempt.State)
	assert.NotEqual(t, rejectedRef, attempt.Reference)

	attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStatePaymentSucceeded, attempt.State)
}

func TestCheckoutService_VerifyNetworkError_StaysVerifying(t *testing.T) {
	newVerifyingFixture := func(t *testing.T) (*checkoutFixture, *entity.CheckoutAttempt) {
		t.Helper()

		f := newCheckoutFixture(t, newTestConfig(), addBlackM(10))
		f.store.verifyErr = domainerrors.NewNetworkError(context.DeadlineExceeded, "payment/verify/ORDER_1")
		attempt, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
		require.NoError(t, err)

		attempt, err = f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventSuccess, Reference: attempt.Reference})
		require.Error(t, err)
		require.True(t, errors.Is(err, domainerrors.ErrNetwork))
		require.Equal(t, entity.CheckoutStatePaymentVerifying, attempt.State)
		f.store.verifyErr = nil

		return f, attempt
	}

	t.Run("reverify", func(t *testing.T) {
		f, _ := newVerifyingFixture(t)

		attempt, err := f.checkout.Reverify(context.Background())
		require.NoError(t, err)

		assert.Equal(t, entity.CheckoutStatePaymentSucceeded, attempt.State)
		assert.Empty(t, f.cart.Items())
	})

	t.Run("abandon", func(t *testing.T) {
		f, _ := newVerifyingFixture(t)

		attempt, err := f.checkout.Abandon(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.CheckoutStatePaymentAbandoned, attempt.State)

		// A new checkout may start once the old one is abandoned
		next, err := f.checkout.Begin(context.Background(), testForm, testCallbacks)
		require.NoError(t, err)
		assert.Equal(t, entity.CheckoutStatePaymentInitialized, next.State)
		assert.NotEqual(t, attempt.OrderID, next.OrderID)
	})

	t.Run("window closed", func(t *testing.T) {
		f, _ := newVerifyingFixture(t)

		attempt, err := f.checkout.HandleGatewayEvent(context.Background(), entity.GatewayEvent{Kind: entity.GatewayEventClosed})
		require.NoError(t, err)
		assert.Equal(t, entity.CheckoutStatePaymentAbandoned, attempt.State)
	})
}

func TestVerificationRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bad request", err: domainerrors.NewAPIError(400, "GET", "payment/verify/R", "Transaction reference not found"), want: true},
		{name: "not found", err: errors.Wrap(domainerrors.NewAPIError(404, "GET", "payment/verify/R", ""), "verify"), want: true},
		{name: "unauthorized", err: domainerrors.NewAPIError(401, "GET", "payment/verify/R", ""), want: false},
		{name: "rate limited", err: domainerrors.NewAPIError(429, "GET", "payment/verify/R", ""), want: false},
		{name: "server error", err: domainerrors.NewAPIError(502, "GET", "payment/verify/R", ""), want: false},
		{name: "network", err: domainerrors.NewNetworkError(context.DeadlineExceeded, "payment/verify/R"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verificationRejected(tt.err))
		})
	}
}
