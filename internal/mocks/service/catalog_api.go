package service

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCatalogAPI is a testify mock of service.CatalogAPI.
type MockCatalogAPI struct {
	mock.Mock
}

// NewMockCatalogAPI creates a mock that asserts its expectations when the test ends.
func NewMockCatalogAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogAPI {
	m := &MockCatalogAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCatalogAPI) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockCatalogAPI) ListTestimonials(ctx context.Context) ([]*entity.Testimonial, error) {
	args := m.Called(ctx)
	testimonials, _ := args.Get(0).([]*entity.Testimonial)

	return testimonials, args.Error(1)
}
