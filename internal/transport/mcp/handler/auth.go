package handler

import (
	"context"
	"encoding/json"

	"github.com/storefront-mcp/internal/application/auth"
	"github.com/storefront-mcp/internal/application/order"
	"github.com/storefront-mcp/internal/transport/mcp"
)

type myOrdersArgs struct {
	Token string `json:"token" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

// AuthTools exposes the OTP identity flow: request a code, verify it for a
// session token, and the token-gated order lookup.
func AuthTools(authSvc auth.Service, orderSvc order.Service) []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "request-otp",
			Description: "Email a one-time passcode to a customer so they can verify their identity.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{
						"type":        "string",
						"format":      "email",
						"description": "The customer's email address.",
					},
				},
				"required":             []string{"email"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a auth.RequestOTPInput
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				msg, err := authSvc.RequestOTP(ctx, a)
				if err != nil {
					return nil, err
				}
				return mcp.MessageResult(msg), nil
			},
		},
		{
			Name:        "verify-otp",
			Description: "Verify an emailed one-time passcode. Returns a session token and, when available, the customer's recent orders.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{
						"type":        "string",
						"format":      "email",
						"description": "The email the code was sent to.",
					},
					"code": map[string]any{
						"type":        "string",
						"description": "The 6-digit code from the email.",
					},
				},
				"required":             []string{"email", "code"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a auth.VerifyOTPInput
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				res, err := authSvc.VerifyOTP(ctx, a)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(res)
			},
		},
		{
			Name:        "get-my-orders",
			Description: "List the verified customer's own orders. Requires the session token from verify-otp.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"token": map[string]any{
						"type":        "string",
						"description": "Session token issued by verify-otp.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of orders to return (default 10).",
					},
				},
				"required":             []string{"token"},
				"additionalProperties": false,
			},
			Handler: func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
				var a myOrdersArgs
				if err := decodeArgs(args, &a); err != nil {
					return mcp.ErrorResult(err.Error()), nil
				}
				sess, err := authSvc.Authorize(ctx, a.Token)
				if err != nil {
					return nil, err
				}
				// The token is stripped here; the wrapped order query only
				// sees the verified email.
				orders, err := orderSvc.ListByEmail(ctx, sess.Email, a.Limit)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(orders)
			},
		},
	}
}
