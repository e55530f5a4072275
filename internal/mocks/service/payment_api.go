package service

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockPaymentAPI is a testify mock of service.PaymentAPI.
type MockPaymentAPI struct {
	mock.Mock
}

// NewMockPaymentAPI creates a mock that asserts its expectations when the test ends.
func NewMockPaymentAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPaymentAPI {
	m := &MockPaymentAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPaymentAPI) InitializePayment(ctx context.Context, req *entity.PaymentInit) (*entity.PaymentSession, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*entity.PaymentSession)

	return session, args.Error(1)
}

func (m *MockPaymentAPI) VerifyPayment(ctx context.Context, reference string) (*entity.PaymentVerification, error) {
	args := m.Called(ctx, reference)
	verification, _ := args.Get(0).(*entity.PaymentVerification)

	return verification, args.Error(1)
}

func (m *MockPaymentAPI) PaymentHistory(ctx context.Context) ([]*entity.Payment, error) {
	args := m.Called(ctx)
	payments, _ := args.Get(0).([]*entity.Payment)

	return payments, args.Error(1)
}

func (m *MockPaymentAPI) GetPayment(ctx context.Context, paymentID string) (*entity.Payment, error) {
	args := m.Called(ctx, paymentID)
	payment, _ := args.Get(0).(*entity.Payment)

	return payment, args.Error(1)
}
