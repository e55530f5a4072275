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

// InitializePayment registers the payment with the store before the payer
// meets the gateway. Amount is in the gateway's minor unit.
func (c *Client) InitializePayment(ctx context.Context, req *entity.PaymentInit) (*entity.PaymentSession, error) {
	body := paymentInitRequest{
		Amount:      req.Amount,
		Email:       req.Email,
		OrderID:     req.OrderID,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "payment/initialize-payment", body, &raw); err != nil {
		return nil, err
	}

	session := &entity.PaymentSession{Reference: req.Reference}

	var dto paymentSessionDTO
	if ok, err := decodeObject(raw, &dto); err == nil && ok {
		session.AuthorizationURL = firstNonEmpty(dto.AuthorizationURL, dto.AuthorizationAlt)
		session.AccessCode = firstNonEmpty(dto.AccessCode, dto.AccessCodeAlt)
		// The gateway may only echo the reference; a different one is the store's to explain.
		if dto.Reference != "" && dto.Reference != req.Reference {
			return nil, errors.WithStack(domainerrors.ErrPaymentReferenceMismatch.WithDetails(dto.Reference))
		}
	}

	return session, nil
}

// VerifyPayment asks the store for the gateway's verdict on reference. A
// response flagged unsuccessful reports the status "failed" unless the
// store says otherwise.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*entity.PaymentVerification, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "payment/verify/"+url.PathEscape(reference), nil, &raw); err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "decode verification")
	}

	var dto paymentDTO
	if _, err := decodeObject(raw, &dto); err != nil {
		return nil, errors.Wrap(err, "decode verification")
	}

	verification := dto.toVerification()
	if verification.Reference == "" {
		verification.Reference = reference
	}
	if env.failed() && !verification.IsPending() {
		verification.Status = entity.VerificationStatusFailed
	}
	if verification.Status == "" {
		verification.Status = entity.VerificationStatusFailed
	}

	return verification, nil
}

func (c *Client) PaymentHistory(ctx context.Context) ([]*entity.Payment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "payment/history", nil, &raw); err != nil {
		return nil, err
	}

	dtos, err := decodeList[paymentDTO](raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode payment history")
	}

	payments := make([]*entity.Payment, 0, len(dtos))
	for i := range dtos {
		payments = append(payments, dtos[i].toEntity())
	}

	return payments, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "payment/"+url.PathEscape(paymentID), nil, &raw); err != nil {
		return nil, err
	}

	var dto paymentDTO
	ok, err := decodeObject(raw, &dto)
	if err != nil {
		return nil, errors.Wrap(err, "decode payment")
	}
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrNotFound.WithDetails("payment " + paymentID))
	}

	return dto.toEntity(), nil
}
