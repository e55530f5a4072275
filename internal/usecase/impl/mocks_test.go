package impl

import (
	"context"
	"strconv"
	"sync"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
)

// fakeStore is an in-memory stand-in for the store's REST API.
type fakeStore struct {
	mu sync.Mutex

	// auth
	profile       *entity.Identity
	profileErr    error
	refreshResult *entity.AuthResult
	refreshErr    error
	signInResult  *entity.AuthResult
	signInErr     error
	signOutErr    error
	tokens        *memoryTokens

	// cart
	cart       []*entity.CartItem
	nextItemID int
	getCartErr error
	addErr     error
	clearErr   error

	// orders
	orders         map[string]*entity.Order
	createOrderErr error
	lastOrder      *entity.OrderRequest
	cancelled      []string

	// payments
	initErr       error
	inits         []*entity.PaymentInit
	verifications []*entity.PaymentVerification
	verifyErr     error
	verified      []string

	// delivery
	delivery     *entity.DeliveryInfo
	deliverySave int
	deliveryPut  int

	products []*entity.Product

	calls map[string]int
}

var _ service.StorefrontAPI = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[string]*entity.Order),
		calls:  make(map[string]int),
		tokens: &memoryTokens{},
	}
}

func (f *fakeStore) record(name string) {
	f.calls[name]++
}

func (f *fakeStore) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[name]
}

func (f *fakeStore) SignIn(ctx context.Context, email, password string) (*entity.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignIn")

	if f.signInErr != nil {
		return nil, f.signInErr
	}
	_ = f.tokens.Save(ctx, f.signInResult.AccessToken)

	return f.signInResult, nil
}

func (f *fakeStore) SignUp(ctx context.Context, name, email, password string) (*entity.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignUp")

	if f.signInErr != nil {
		return nil, f.signInErr
	}
	_ = f.tokens.Save(ctx, f.signInResult.AccessToken)

	return f.signInResult, nil
}

func (f *fakeStore) Profile(ctx context.Context) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Profile")

	if f.profileErr != nil {
		return nil, f.profileErr
	}

	return f.profile, nil
}

func (f *fakeStore) RefreshToken(ctx context.Context) (*entity.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RefreshToken")

	if f.refreshErr != nil {
		_ = f.tokens.Clear(ctx)

		return nil, f.refreshErr
	}
	_ = f.tokens.Save(ctx, f.refreshResult.AccessToken)

	return f.refreshResult, nil
}

func (f *fakeStore) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignOut")

	return f.signOutErr
}

func (f *fakeStore) VerifyEmail(ctx context.Context, email, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VerifyEmail")

	return nil
}

func (f *fakeStore) RequestNewOTP(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RequestNewOTP")

	return nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListProducts")

	return f.products, nil
}

func (f *fakeStore) ListTestimonials(ctx context.Context) ([]*entity.Testimonial, error) {
	return []*entity.Testimonial{{Name: "Ada"}}, nil
}

func (f *fakeStore) GetCart(ctx context.Context) ([]*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCart")

	if f.getCartErr != nil {
		return nil, f.getCartErr
	}
	items := make([]*entity.CartItem, 0, len(f.cart))
	for _, item := range f.cart {
		clone := *item
		items = append(items, &clone)
	}

	return items, nil
}

func (f *fakeStore) AddCartItem(ctx context.Context, item *entity.AddCartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddCartItem")

	if f.addErr != nil {
		return f.addErr
	}
	f.nextItemID++
	f.cart = append(f.cart, &entity.CartItem{
		ItemID:    "item-" + strconv.Itoa(f.nextItemID),
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Size:      item.Size,
		Color:     item.Color,
		UnitPrice: item.Price,
	})

	return nil
}

func (f *fakeStore) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateCartItem")

	for _, item := range f.cart {
		if item.ItemID == itemID {
			item.Quantity = quantity

			return nil
		}
	}

	return domainerrors.NewAPIError(404, "PUT", "cart/update-cart/"+itemID, "cart item not found")
}

func (f *fakeStore) RemoveCartItem(ctx context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveCartItem")

	for i, item := range f.cart {
		if item.ItemID == itemID {
			f.cart = append(f.cart[:i], f.cart[i+1:]...)

			return nil
		}
	}

	return domainerrors.NewAPIError(404, "DELETE", "cart/remove-cart/"+itemID, "cart item not found")
}

func (f *fakeStore) ClearCart(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClearCart")

	if f.clearErr != nil {
		return f.clearErr
	}
	f.cart = nil

	return nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, req *entity.OrderRequest) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateOrder")

	if f.createOrderErr != nil {
		return nil, f.createOrderErr
	}
	f.lastOrder = req
	order := &entity.Order{
		ID:              "order-" + strconv.Itoa(len(f.orders)+1),
		PaymentStatus:   req.PaymentStatus,
		ShippingAddress: req.ShippingAddress,
		DeliveryFee:     req.DeliveryFee,
		TotalAmount:     req.TotalAmount,
	}
	f.orders[order.ID] = order

	return order, nil
}

func (f *fakeStore) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	orders := make([]*entity.Order, 0, len(f.orders))
	for _, order := range f.orders {
		orders = append(orders, order)
	}

	return orders, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}

	return order, nil
}

func (f *fakeStore) CancelOrder(ctx context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CancelOrder")

	f.cancelled = append(f.cancelled, orderID)
	if order, ok := f.orders[orderID]; ok {
		order.PaymentStatus = entity.PaymentStatusCancelled
	}

	return nil
}

func (f *fakeStore) InitializePayment(ctx context.Context, req *entity.PaymentInit) (*entity.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("InitializePayment")

	f.inits = append(f.inits, req)
	if f.initErr != nil {
		return nil, f.initErr
	}

	return &entity.PaymentSession{
		Reference:        req.Reference,
		AuthorizationURL: "https://checkout.example.com/" + req.Reference,
	}, nil
}

// VerifyPayment answers with the queued verifications in order, repeating the last one.
func (f *fakeStore) VerifyPayment(ctx context.Context, reference string) (*entity.PaymentVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VerifyPayment")

	f.verified = append(f.verified, reference)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if len(f.verifications) == 0 {
		return &entity.PaymentVerification{Reference: reference, Status: entity.VerificationStatusSuccess}, nil
	}
	next := *f.verifications[0]
	if len(f.verifications) > 1 {
		f.verifications = f.verifications[1:]
	}
	next.Reference = reference

	return &next, nil
}

func (f *fakeStore) PaymentHistory(ctx context.Context) ([]*entity.Payment, error) {
	return []*entity.Payment{{ID: "pay-1", Reference: "ORDER_1_a", Status: "success"}}, nil
}

func (f *fakeStore) GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error) {
	if paymentID != "pay-1" {
		return nil, domainerrors.ErrNotFound
	}

	return &entity.Payment{ID: "pay-1", Reference: "ORDER_1_a", Status: "success"}, nil
}

func (f *fakeStore) GetDeliveryInfo(ctx context.Context) (*entity.DeliveryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.delivery, nil
}

func (f *fakeStore) SaveDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deliverySave++
	f.delivery = info

	return nil
}

func (f *fakeStore) UpdateDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deliveryPut++
	f.delivery = info

	return nil
}

func (f *fakeStore) ResolveImageURL(path string) string {
	return path
}

func (f *fakeStore) OnSessionExpired(fn func(ctx context.Context)) {}

// memoryTokens is a TokenStore kept in memory.
type memoryTokens struct {
	mu       sync.Mutex
	token    string
	clears   int
	clearErr error
}

func (m *memoryTokens) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token, nil
}

func (m *memoryTokens) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token

	return nil
}

func (m *memoryTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clears++
	m.token = ""

	return m.clearErr
}

func (m *memoryTokens) Close() error {
	return nil
}

func (m *memoryTokens) current() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token
}

// staticInspector returns fixed claims for any token.
type staticInspector struct {
	claims *service.Claims
	err    error
}

func (s staticInspector) Inspect(string) (*service.Claims, error) {
	return s.claims, s.err
}
