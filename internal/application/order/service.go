package order

import (
	"context"
	"fmt"

	"github.com/storefront-mcp/internal/domain"
	"github.com/storefront-mcp/internal/infrastructure/shopify"
)

// API is the subset of the commerce client this service needs.
type API interface {
	ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, in shopify.OrderUpdateInput) (*domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
}

// CustomerAPI resolves an email to a customer record for the token-gated
// my-orders lookup.
type CustomerAPI interface {
	FindByEmail(ctx context.Context, email string, limit int) ([]domain.Customer, error)
}

type UpdateRequest struct {
	ID    string   `json:"id" validate:"required"`
	Note  *string  `json:"note,omitempty"`
	Email *string  `json:"email,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

type Service interface {
	List(ctx context.Context, status string, limit int) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, req UpdateRequest) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]domain.Order, error)
}

type service struct {
	api       API
	customers CustomerAPI
}

func NewService(api API, customers CustomerAPI) Service {
	return &service{api: api, customers: customers}
}

func (s *service) List(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	return s.api.ListOrders(ctx, status, clampLimit(limit))
}

func (s *service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.api.GetOrderByID(ctx, id)
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*domain.Order, error) {
	return s.api.UpdateOrder(ctx, shopify.OrderUpdateInput{
		ID:    req.ID,
		Note:  req.Note,
		Email: req.Email,
		Tags:  req.Tags,
	})
}

// ListByEmail resolves the customer behind a verified email and returns
// that customer's recent orders.
func (s *service) ListByEmail(ctx context.Context, email string, limit int) ([]domain.Order, error) {
	customers, err := s.customers.FindByEmail(ctx, email, 1)
	if err != nil {
		return nil, fmt.Errorf("customer lookup: %w", err)
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("no customer record for %s: %w", email, domain.ErrNotFound)
	}
	return s.api.ListOrdersByCustomer(ctx, shopify.LegacyID(customers[0].ID), clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 250:
		return 250
	default:
		return limit
	}
}
