package customer

import (
	"context"

	"github.com/storefront-mcp/internal/domain"
	"github.com/storefront-mcp/internal/infrastructure/shopify"
)

// API is the subset of the commerce client this service needs.
type API interface {
	SearchCustomers(ctx context.Context, search string, limit int) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, in shopify.CustomerUpdateInput) (*domain.Customer, error)
	ListOrdersByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
}

type UpdateRequest struct {
	ID        string   `json:"id" validate:"required"`
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type Service interface {
	List(ctx context.Context, search string, limit int) ([]domain.Customer, error)
	Update(ctx context.Context, req UpdateRequest) (*domain.Customer, error)
	Orders(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
}

type service struct {
	api API
}

func NewService(api API) Service {
	return &service{api: api}
}

func (s *service) List(ctx context.Context, search string, limit int) ([]domain.Customer, error) {
	return s.api.SearchCustomers(ctx, search, clampLimit(limit))
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*domain.Customer, error) {
	return s.api.UpdateCustomer(ctx, shopify.CustomerUpdateInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Tags:      req.Tags,
	})
}

func (s *service) Orders(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	// Callers may pass either a numeric ID or a full global identifier.
	return s.api.ListOrdersByCustomer(ctx, shopify.LegacyID(customerID), clampLimit(limit))
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
