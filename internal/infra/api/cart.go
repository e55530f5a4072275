package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

func (c *Client) GetCart(ctx context.Context) ([]*entity.CartItem, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "cart/get-cart", nil, &raw); err != nil {
		return nil, err
	}

	dtos, err := decodeList[cartItemDTO](raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}

	items := make([]*entity.CartItem, 0, len(dtos))
	for i := range dtos {
		items = append(items, dtos[i].toEntity(c.ResolveImageURL))
	}

	return items, nil
}

func (c *Client) AddCartItem(ctx context.Context, item *entity.AddCartItem) error {
	price, _ := item.Price.Float64()
	body := addCartRequest{
		ProductID: item.ProductID,
		Size:      item.Size,
		Color:     item.Color,
		Price:     price,
		Quantity:  item.Quantity,
	}

	return c.do(ctx, http.MethodPost, "cart/add-cart", body, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	return c.do(ctx, http.MethodPut, "cart/update-cart/"+url.PathEscape(itemID), updateCartRequest{Quantity: quantity}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "cart/remove-cart/"+url.PathEscape(itemID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "cart/clear-cart", nil, nil)
}
