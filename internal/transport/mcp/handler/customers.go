package handler

import (
	"context"
	"encoding/json"

	"github.com/storefront-mcp/internal/application/customer"
	"github.com/storefront-mcp/internal/transport/mcp"
)

type getCustomersArgs struct {
	SearchQuery string `json:"searchQuery"`
	Limit       int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

type updateCustomerArgs struct {
	ID        string   `json:"id" validate:"required"`
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type getCustomerOrdersArgs struct {
	CustomerID string `json:"customerId" validate:"required"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

// CustomerTools exposes the customer query and update operations.
func CustomerTools(svc customer.Service) []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "get-customers",
			Description: "List customers, optionally filtered by an admin search query (e.g. \"email:a@x.com\").",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"searchQuery": map[string]any{
						"type":        "string",
						"description": "Admin API customer search query.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of customers to return (default 10).",
					},
				},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a getCustomersArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				customers, err := svc.List(ctx, a.SearchQuery, a.Limit)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(customers)
			},
		},
		{
			Name:        "update-customer",
			Description: "Update a customer's name or tags.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":        map[string]any{"type": "string", "description": "Customer ID, numeric or gid:// form."},
					"firstName": map[string]any{"type": "string"},
					"lastName":  map[string]any{"type": "string"},
					"tags":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required":             []string{"id"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a updateCustomerArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				c, err := svc.Update(ctx, customer.UpdateRequest{
					ID:        a.ID,
					FirstName: a.FirstName,
					LastName:  a.LastName,
					Tags:      a.Tags,
				})
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(c)
			},
		},
		{
			Name:        "get-customer-orders",
			Description: "List a customer's most recent orders.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"customerId": map[string]any{
						"type":        "string",
						"description": "Customer ID, numeric or gid:// form.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of orders to return (default 10).",
					},
				},
				"required":             []string{"customerId"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a getCustomerOrdersArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				orders, err := svc.Orders(ctx, a.CustomerID, a.Limit)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(orders)
			},
		},
	}
}
