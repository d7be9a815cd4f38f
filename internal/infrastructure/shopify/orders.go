package shopify

import (
	"context"
	"fmt"

	"github.com/storefront-mcp/internal/domain"
)

const orderFields = `
id
name
email
createdAt
displayFinancialStatus
displayFulfillmentStatus
note
tags
totalPriceSet {
  shopMoney {
    amount
    currencyCode
  }
}
lineItems(first: 20) {
  edges {
    node {
      title
      quantity
      originalUnitPriceSet {
        shopMoney {
          amount
          currencyCode
        }
      }
    }
  }
}`

type moneySet struct {
	ShopMoney struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"shopMoney"`
}

func (m *moneySet) toDomain() domain.Money {
	return domain.Money{Amount: m.ShopMoney.Amount, CurrencyCode: m.ShopMoney.CurrencyCode}
}

type orderNode struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	CreatedAt                string   `json:"createdAt"`
	DisplayFinancialStatus   string   `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string   `json:"displayFulfillmentStatus"`
	Note                     string   `json:"note"`
	Tags                     []string `json:"tags"`
	TotalPriceSet            moneySet `json:"totalPriceSet"`
	LineItems                struct {
		Edges []struct {
			Node struct {
				Title                string   `json:"title"`
				Quantity             int      `json:"quantity"`
				OriginalUnitPriceSet moneySet `json:"originalUnitPriceSet"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

func (n *orderNode) toDomain() domain.Order {
	o := domain.Order{
		ID:                n.ID,
		Name:              n.Name,
		Email:             n.Email,
		CreatedAt:         n.CreatedAt,
		FinancialStatus:   n.DisplayFinancialStatus,
		FulfillmentStatus: n.DisplayFulfillmentStatus,
		Note:              n.Note,
		Tags:              n.Tags,
		TotalPrice:        n.TotalPriceSet.toDomain(),
	}
	for _, e := range n.LineItems.Edges {
		o.LineItems = append(o.LineItems, domain.LineItem{
			Title:    e.Node.Title,
			Quantity: e.Node.Quantity,
			Price:    e.Node.OriginalUnitPriceSet.toDomain(),
		})
	}
	return o
}

type ordersConnection struct {
	Orders struct {
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

func (oc *ordersConnection) toDomain() []domain.Order {
	orders := make([]domain.Order, 0, len(oc.Orders.Edges))
	for _, e := range oc.Orders.Edges {
		orders = append(orders, e.Node.toDomain())
	}
	return orders
}

// ListOrders lists recent orders, optionally filtered by financial status
// (Admin API search syntax, e.g. "paid", "refunded").
func (c *Client) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	query := fmt.Sprintf(`
query getOrders($first: Int!, $query: String) {
  orders(first: $first, query: $query, sortKey: CREATED_AT, reverse: true) {
    edges { node { %s } }
  }
}`, orderFields)

	variables := map[string]any{"first": limit}
	if status != "" {
		variables["query"] = "financial_status:" + status
	}

	var out ordersConnection
	if err := c.do(ctx, query, variables, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// ListOrdersByCustomer lists a customer's most recent orders. customerID is
// the numeric identifier extracted from the customer's global ID.
func (c *Client) ListOrdersByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	query := fmt.Sprintf(`
query getCustomerOrders($first: Int!, $query: String) {
  orders(first: $first, query: $query, sortKey: CREATED_AT, reverse: true) {
    edges { node { %s } }
  }
}`, orderFields)

	variables := map[string]any{
		"first": limit,
		"query": "customer_id:" + customerID,
	}

	var out ordersConnection
	if err := c.do(ctx, query, variables, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// GetOrderByID fetches a single order by numeric or global ID.
func (c *Client) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`
query getOrder($id: ID!) {
  order(id: $id) { %s }
}`, orderFields)

	var out struct {
		Order *orderNode `json:"order"`
	}
	if err := c.do(ctx, query, map[string]any{"id": normalizeGID(id, "Order")}, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	o := out.Order.toDomain()
	return &o, nil
}

// OrderUpdateInput carries the mutable order fields. Nil fields are left untouched.
type OrderUpdateInput struct {
	ID    string
	Note  *string
	Email *string
	Tags  []string
}

const orderUpdateMutation = `
mutation orderUpdate($input: OrderInput!) {
  orderUpdate(input: $input) {
    order {
      id
      name
      email
      note
      tags
    }
    userErrors {
      field
      message
    }
  }
}`

func (c *Client) UpdateOrder(ctx context.Context, in OrderUpdateInput) (*domain.Order, error) {
	input := map[string]any{"id": normalizeGID(in.ID, "Order")}
	if in.Note != nil {
		input["note"] = *in.Note
	}
	if in.Email != nil {
		input["email"] = *in.Email
	}
	if in.Tags != nil {
		input["tags"] = in.Tags
	}

	var out struct {
		OrderUpdate struct {
			Order      *orderNode  `json:"order"`
			UserErrors []userError `json:"userErrors"`
		} `json:"orderUpdate"`
	}
	if err := c.do(ctx, orderUpdateMutation, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	if err := joinUserErrors(out.OrderUpdate.UserErrors); err != nil {
		return nil, err
	}
	o := out.OrderUpdate.Order.toDomain()
	return &o, nil
}
