package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	api    service.PaymentAPI
	logger *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(api service.PaymentAPI, logger *slog.Logger) usecase.PaymentUsecase {
	return &paymentService{
		api:    api,
		logger: logger,
	}
}

func (srv *paymentService) History(ctx context.Context) ([]*entity.Payment, error) {
	payments, err := srv.api.PaymentHistory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payment history")
	}

	return payments, nil
}

func (srv *paymentService) GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error) {
	if err := requireID(paymentID, "payment id"); err != nil {
		return nil, err
	}

	payment, err := srv.api.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payment")
	}

	return payment, nil
}

// Verify asks the store for a reference's status once, outside any checkout.
func (srv *paymentService) Verify(ctx context.Context, reference string) (*entity.PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if err := requireID(reference, "payment reference"); err != nil {
		return nil, err
	}

	verification, err := srv.api.VerifyPayment(ctx, reference)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify payment")
	}
	srv.logger.Debug("Payment verified",
		slog.String("reference", reference),
		slog.String("status", verification.Status),
	)

	return verification, nil
}
