package product

import (
	"context"

	"github.com/storefront-mcp/internal/domain"
)

// API is the subset of the commerce client this service needs.
type API interface {
	GetProducts(ctx context.Context, searchTitle string, limit int) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service interface {
	List(ctx context.Context, searchTitle string, limit int) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type service struct {
	api API
}

func NewService(api API) Service {
	return &service{api: api}
}

func (s *service) List(ctx context.Context, searchTitle string, limit int) ([]domain.Product, error) {
	return s.api.GetProducts(ctx, searchTitle, clampLimit(limit))
}

func (s *service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.api.GetProductByID(ctx, id)
}

// clampLimit keeps page sizes within what the upstream API accepts.
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
