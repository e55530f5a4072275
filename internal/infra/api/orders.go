package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
)

// CreateOrder submits a pending order. The store answers with the order
// document; only its id is guaranteed.
func (c *Client) CreateOrder(ctx context.Context, req *entity.OrderRequest) (*entity.Order, error) {
	deliveryFee, _ := req.DeliveryFee.Float64()
	totalAmount, _ := req.TotalAmount.Float64()
	body := orderRequestDTO{
		ShippingAddress: newShippingAddressDTO(req.ShippingAddress),
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   req.PaymentMethod,
		DeliveryFee:     deliveryFee,
		TotalAmount:     totalAmount,
		PaymentStatus:   string(req.PaymentStatus),
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "orders/checkout", body, &raw); err != nil {
		return nil, err
	}

	var dto orderDTO
	ok, err := decodeObject(raw, &dto)
	if err != nil {
		return nil, errors.Wrap(err, "decode order")
	}
	order := dto.toEntity()
	if !ok || order.ID == "" {
		return nil, errors.WithStack(domainerrors.ErrCollaborator.WithDetails("order response carried no order id"))
	}

	// Fill what the store did not echo back.
	if order.PaymentStatus == "" {
		order.PaymentStatus = req.PaymentStatus
	}
	if order.TotalAmount.IsZero() {
		order.TotalAmount = req.TotalAmount
		order.DeliveryFee = req.DeliveryFee
	}
	if order.ShippingAddress == (entity.ShippingAddress{}) {
		order.ShippingAddress = req.ShippingAddress
	}

	return order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "orders/get-all-orders", nil, &raw); err != nil {
		return nil, err
	}

	dtos, err := decodeList[orderDTO](raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}

	orders := make([]*entity.Order, 0, len(dtos))
	for i := range dtos {
		orders = append(orders, dtos[i].toEntity())
	}

	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "orders/get-order-byId/"+url.PathEscape(orderID), nil, &raw); err != nil {
		return nil, err
	}

	var dto orderDTO
	ok, err := decodeObject(raw, &dto)
	if err != nil {
		return nil, errors.Wrap(err, "decode order")
	}
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrNotFound.WithDetails("order " + orderID))
	}

	return dto.toEntity(), nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "orders/cancel-order/"+url.PathEscape(orderID)+"/cancel", nil, nil)
}
