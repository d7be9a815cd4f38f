package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront-mcp/internal/domain"
	"github.com/storefront-mcp/internal/infrastructure/shopify"
)

type mockOrderAPI struct {
	mock.Mock
}

func (m *mockOrderAPI) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, status, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderAPI) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderAPI) UpdateOrder(ctx context.Context, in shopify.OrderUpdateInput) (*domain.Order, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderAPI) ListOrdersByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, customerID, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCustomerAPI struct {
	mock.Mock
}

func (m *mockCustomerAPI) FindByEmail(ctx context.Context, email string, limit int) ([]domain.Customer, error) {
	args := m.Called(ctx, email, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListByEmail_ResolvesLegacyCustomerID(t *testing.T) {
	api := new(mockOrderAPI)
	customers := new(mockCustomerAPI)
	svc := NewService(api, customers)

	customers.On("FindByEmail", mock.Anything, "ada@example.com", 1).
		Return([]domain.Customer{{ID: "gid://shopify/Customer/207119551"}}, nil)
	api.On("ListOrdersByCustomer", mock.Anything, "207119551", 10).
		Return([]domain.Order{{Name: "#1001"}}, nil)

	orders, err := svc.ListByEmail(context.Background(), "ada@example.com", 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "#1001", orders[0].Name)
	api.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestListByEmail_NoCustomerRecord(t *testing.T) {
	api := new(mockOrderAPI)
	customers := new(mockCustomerAPI)
	svc := NewService(api, customers)

	customers.On("FindByEmail", mock.Anything, "ghost@example.com", 1).
		Return([]domain.Customer{}, nil)

	_, err := svc.ListByEmail(context.Background(), "ghost@example.com", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	api.AssertNotCalled(t, "ListOrdersByCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func TestListByEmail_LookupFailure(t *testing.T) {
	api := new(mockOrderAPI)
	customers := new(mockCustomerAPI)
	svc := NewService(api, customers)

	customers.On("FindByEmail", mock.Anything, "ada@example.com", 1).
		Return(nil, errors.New("upstream timeout"))

	_, err := svc.ListByEmail(context.Background(), "ada@example.com", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer lookup")
}

func TestList_ClampsLimit(t *testing.T) {
	api := new(mockOrderAPI)
	svc := NewService(api, new(mockCustomerAPI))

	api.On("ListOrders", mock.Anything, "", 250).Return([]domain.Order{}, nil)

	_, err := svc.List(context.Background(), "", 9999)
	require.NoError(t, err)
	api.AssertExpectations(t)
}
