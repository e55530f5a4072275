package impl

import (
	"context"
	"log/slog"
	"sync"

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

var cartMessages = validationMessages{
	"ProductID": "please choose a product",
}

// CartServiceParams holds dependencies for the cart service, injected by Fx.
type CartServiceParams struct {
	fx.In

	API     service.CartAPI
	Session usecase.SessionUsecase
	Logger  *slog.Logger
}

// cartService implements the CartUsecase interface.
type cartService struct {
	api      service.CartAPI
	session  usecase.SessionUsecase
	logger   *slog.Logger
	validate *validator.Validate

	// opMu serializes mutations so their re-fetches cannot interleave
	opMu sync.Mutex

	mu     sync.RWMutex
	items  []*entity.CartItem
	loaded bool
}

// NewCartService is the constructor for cartService. The cart is dropped
// whenever the signed-in customer changes.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	srv := &cartService{
		api:      params.API,
		session:  params.Session,
		logger:   params.Logger,
		validate: newValidator(),
	}

	params.Session.OnChange(func(ctx context.Context, _ *entity.Identity) {
		srv.log(ctx).Debug("Customer changed, resetting cart")
		srv.replace(nil, false)
	})

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) requireIdentity() error {
	if !srv.session.IsAuthenticated() {
		return errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	return nil
}

func (srv *cartService) Fetch(ctx context.Context) error {
	if err := srv.requireIdentity(); err != nil {
		return err
	}

	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	return srv.fetchLocked(ctx)
}

// fetchLocked replaces local items with the store's. On error local state is left as is.
func (srv *cartService) fetchLocked(ctx context.Context) error {
	items, err := srv.api.GetCart(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch cart")
	}
	srv.replace(items, true)
	srv.log(ctx).Debug("Cart fetched", slog.Int("lines", len(items)))

	return nil
}

func (srv *cartService) Add(ctx context.Context, input *usecase.AddToCartInput) error {
	// 1. Validate the selection
	if err := srv.requireIdentity(); err != nil {
		return err
	}
	if err := validateStruct(srv.validate, input, cartMessages); err != nil {
		return err
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	// 2. Merging needs the store's lines
	if !srv.isLoaded() {
		if err := srv.fetchLocked(ctx); err != nil {
			return err
		}
	}

	// 3. An existing line with the same key absorbs the quantity
	key := entity.NewCartItemKey(input.ProductID, input.Size, input.Color, input.Price)
	if existing := srv.findByKey(key); existing != nil {
		srv.log(ctx).Debug("Merging into existing cart line",
			slog.String("item_id", existing.ItemID),
			slog.Int("quantity", existing.Quantity+quantity),
		)

		return srv.updateQuantityLocked(ctx, existing.ItemID, existing.Quantity+quantity)
	}

	// 4. Otherwise add a new line and re-read
	if err := srv.api.AddCartItem(ctx, &entity.AddCartItem{
		ProductID: input.ProductID,
		Size:      input.Size,
		Color:     input.Color,
		Price:     input.Price,
		Quantity:  quantity,
	}); err != nil {
		return errors.Wrap(err, "failed to add item to cart")
	}

	return srv.fetchLocked(ctx)
}

func (srv *cartService) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if err := srv.requireIdentity(); err != nil {
		return err
	}

	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	return srv.updateQuantityLocked(ctx, itemID, quantity)
}

func (srv *cartService) updateQuantityLocked(ctx context.Context, itemID string, quantity int) error {
	// Quantities are never persisted at zero or below
	if quantity <= 0 {
		return srv.removeLocked(ctx, itemID)
	}

	if err := srv.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return errors.Wrap(err, "failed to update cart item")
	}

	return srv.fetchLocked(ctx)
}

func (srv *cartService) Remove(ctx context.Context, itemID string) error {
	if err := srv.requireIdentity(); err != nil {
		return err
	}

	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	return srv.removeLocked(ctx, itemID)
}

func (srv *cartService) removeLocked(ctx context.Context, itemID string) error {
	if err := srv.api.RemoveCartItem(ctx, itemID); err != nil {
		return errors.Wrap(err, "failed to remove cart item")
	}

	return srv.fetchLocked(ctx)
}

func (srv *cartService) Clear(ctx context.Context) error {
	if err := srv.requireIdentity(); err != nil {
		return err
	}

	srv.opMu.Lock()
	defer srv.opMu.Unlock()

	if err := srv.api.ClearCart(ctx); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	// The post-state is known, no re-fetch
	srv.replace(nil, true)

	return nil
}

func (srv *cartService) Items() []*entity.CartItem {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	items := make([]*entity.CartItem, 0, len(srv.items))
	for _, item := range srv.items {
		clone := *item
		items = append(items, &clone)
	}

	return items
}

// Total is derived on every read.
func (srv *cartService) Total() decimal.Decimal {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return entity.CartTotal(srv.items)
}

func (srv *cartService) Count() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return entity.CartCount(srv.items)
}

func (srv *cartService) replace(items []*entity.CartItem, loaded bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.items = items
	srv.loaded = loaded
}

func (srv *cartService) isLoaded() bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.loaded
}

func (srv *cartService) findByKey(key entity.CartItemKey) *entity.CartItem {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	for _, item := range srv.items {
		if item.Key() == key {
			clone := *item

			return &clone
		}
	}

	return nil
}
