package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-mcp/internal/domain"
	"github.com/storefront-mcp/internal/transport/mcp"
)

type stubProductService struct {
	lastSearch string
	lastLimit  int
	products   []domain.Product
}

func (s *stubProductService) List(_ context.Context, searchTitle string, limit int) ([]domain.Product, error) {
	s.lastSearch = searchTitle
	s.lastLimit = limit
	return s.products, nil
}

func (s *stubProductService) Get(_ context.Context, _ string) (*domain.Product, error) {
	return &s.products[0], nil
}

func productTool(t *testing.T, svc *stubProductService, name string) mcp.Tool {
	t.Helper()
	for _, tool := range ProductTools(svc) {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not registered", name)
	return mcp.Tool{}
}

func TestGetProducts_PassesFilterThrough(t *testing.T) {
	svc := &stubProductService{products: []domain.Product{{ID: "gid://shopify/Product/1", Title: "Snowboard"}}}
	tool := productTool(t, svc, "get-products")

	res, err := tool.Handler(context.Background(), json.RawMessage(`{"searchTitle":"snow","limit":5}`))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "snow", svc.lastSearch)
	assert.Equal(t, 5, svc.lastLimit)
	assert.Contains(t, res.Content[0].Text, "Snowboard")
}

func TestGetProducts_LimitOutOfRange_IsToolError(t *testing.T) {
	svc := &stubProductService{}
	tool := productTool(t, svc, "get-products")

	res, err := tool.Handler(context.Background(), json.RawMessage(`{"limit":1000}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetProductByID_RequiresID(t *testing.T) {
	svc := &stubProductService{products: []domain.Product{{}}}
	tool := productTool(t, svc, "get-product-by-id")

	res, err := tool.Handler(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
