package handler

import (
	"context"
	"encoding/json"

	"github.com/storefront-mcp/internal/application/order"
	"github.com/storefront-mcp/internal/transport/mcp"
)

type getOrdersArgs struct {
	Status string `json:"status"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

type getOrderByIDArgs struct {
	OrderID string `json:"orderId" validate:"required"`
}

type updateOrderArgs struct {
	ID    string   `json:"id" validate:"required"`
	Note  *string  `json:"note,omitempty"`
	Email *string  `json:"email,omitempty" validate:"omitempty,email"`
	Tags  []string `json:"tags,omitempty"`
}

// OrderTools exposes the order query and update operations.
func OrderTools(svc order.Service) []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "get-orders",
			Description: "List recent orders, optionally filtered by financial status (e.g. \"paid\").",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"status": map[string]any{
						"type":        "string",
						"description": "Financial status filter.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of orders to return (default 10).",
					},
				},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a getOrdersArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				orders, err := svc.List(ctx, a.Status, a.Limit)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(orders)
			},
		},
		{
			Name:        "get-order-by-id",
			Description: "Fetch a single order by its ID.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"orderId": map[string]any{
						"type":        "string",
						"description": "Order ID, numeric or gid:// form.",
					},
				},
				"required":             []string{"orderId"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a getOrderByIDArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				o, err := svc.Get(ctx, a.OrderID)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(o)
			},
		},
		{
			Name:        "update-order",
			Description: "Update an order's note, contact email or tags.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "description": "Order ID, numeric or gid:// form."},
					"note":  map[string]any{"type": "string"},
					"email": map[string]any{"type": "string", "format": "email"},
					"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required":             []string{"id"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a updateOrderArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				o, err := svc.Update(ctx, order.UpdateRequest{
					ID:    a.ID,
					Note:  a.Note,
					Email: a.Email,
					Tags:  a.Tags,
				})
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(o)
			},
		},
	}
}
