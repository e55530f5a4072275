package api

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

func (c *Client) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "products/get-products", nil, &raw); err != nil {
		return nil, err
	}

	dtos, err := decodeList[productDTO](raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	products := make([]*entity.Product, 0, len(dtos))
	for i := range dtos {
		products = append(products, dtos[i].toEntity(c.ResolveImageURL))
	}

	return products, nil
}

func (c *Client) ListTestimonials(ctx context.Context) ([]*entity.Testimonial, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "testimonials", nil, &raw); err != nil {
		return nil, err
	}

	dtos, err := decodeList[testimonialDTO](raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode testimonials")
	}

	testimonials := make([]*entity.Testimonial, 0, len(dtos))
	for i := range dtos {
		testimonials = append(testimonials, dtos[i].toEntity(c.ResolveImageURL))
	}

	return testimonials, nil
}
