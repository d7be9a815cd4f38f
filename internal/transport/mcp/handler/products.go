package handler

import (
	"context"
	"encoding/json"

	"github.com/storefront-mcp/internal/application/product"
	"github.com/storefront-mcp/internal/transport/mcp"
)

type getProductsArgs struct {
	SearchTitle string `json:"searchTitle"`
	Limit       int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

type getProductByIDArgs struct {
	ProductID string `json:"productId" validate:"required"`
}

// ProductTools exposes the product query operations.
func ProductTools(svc product.Service) []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "get-products",
			Description: "List products in the store, optionally filtered by a title search.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"searchTitle": map[string]any{
						"type":        "string",
						"description": "Filter products whose title contains this text.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of products to return (default 10).",
					},
				},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a getProductsArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				products, err := svc.List(ctx, a.SearchTitle, a.Limit)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(products)
			},
		},
		{
			Name:        "get-product-by-id",
			Description: "Fetch a single product by its ID.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"productId": map[string]any{
						"type":        "string",
						"description": "Product ID, numeric or gid:// form.",
					},
				},
				"required":             []string{"productId"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a getProductByIDArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				p, err := svc.Get(ctx, a.ProductID)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(p)
			},
		},
	}
}
