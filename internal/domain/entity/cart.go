package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the signed-in customer's cart.
type CartItem struct {
	ItemID    string          // The store's identifier for the line, used by update/remove.
	ProductID string          // The product the line refers to.
	Product   *Product        // Populated product snapshot, nil if the store did not embed it.
	Quantity  int             // Always >= 1 on the store side.
	Size      string          // Chosen size, may be empty.
	Color     string          // Chosen color, may be empty.
	UnitPrice decimal.Decimal // Price recorded on the line when it was added.
	CreatedAt time.Time
}

// CartItemKey is the uniqueness key of a cart line.
type CartItemKey struct {
	ProductID string
	Size      string
	Color     string
	UnitPrice string // decimal string form so equal amounts compare equal
}

// NewCartItemKey builds the key used to merge additions into an existing line.
func NewCartItemKey(productID, size, color string, unitPrice decimal.Decimal) CartItemKey {
	return CartItemKey{
		ProductID: productID,
		Size:      size,
		Color:     color,
		UnitPrice: unitPrice.String(),
	}
}

// Key returns the line's uniqueness key.
func (i *CartItem) Key() CartItemKey {
	return NewCartItemKey(i.ProductID, i.Size, i.Color, i.UnitPrice)
}

// EffectivePrice is the snapshot price when the store embedded a priced
// product, otherwise the price recorded on the line.
func (i *CartItem) EffectivePrice() decimal.Decimal {
	if i.Product != nil && i.Product.Price.IsPositive() {
		return i.Product.Price
	}

	return i.UnitPrice
}

// LineTotal is EffectivePrice × Quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums LineTotal over items.
func CartTotal(items []*CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	return total
}

// CartCount sums quantities over items.
func CartCount(items []*CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return count
}

// AddCartItem is the payload for adding a new line.
type AddCartItem struct {
	ProductID string
	Size      string
	Color     string
	Price     decimal.Decimal
	Quantity  int
}
