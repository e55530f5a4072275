package api

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
)

// GetDeliveryInfo returns nil without error when the customer saved nothing,
// including when the store answers 404.
func (c *Client) GetDeliveryInfo(ctx context.Context) (*entity.DeliveryInfo, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "user/get-delivery-details", nil, &raw)
	if err != nil {
		if apiErr, ok := errors.AsType[*domainerrors.APIError](err); ok && apiErr.HTTPCode() == http.StatusNotFound {
			return nil, nil
		}

		return nil, err
	}

	var dto deliveryInfoDTO
	ok, err := decodeObject(raw, &dto)
	if err != nil {
		return nil, errors.Wrap(err, "decode delivery info")
	}
	if !ok {
		return nil, nil
	}

	return dto.toEntity(), nil
}

func (c *Client) SaveDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error {
	return c.do(ctx, http.MethodPost, "user/delivery-information", newDeliveryInfoDTO(info), nil)
}

func (c *Client) UpdateDeliveryInfo(ctx context.Context, info *entity.DeliveryInfo) error {
	return c.do(ctx, http.MethodPut, "user/update-delivery-information", newDeliveryInfoDTO(info), nil)
}
