package shopify

import (
	"context"

	"github.com/storefront-mcp/internal/domain"
)

type customerNode struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Tags      []string `json:"tags"`
}

func (n *customerNode) toDomain() domain.Customer {
	return domain.Customer{
		ID:        n.ID,
		FirstName: n.FirstName,
		LastName:  n.LastName,
		Email:     n.Email,
		Tags:      n.Tags,
	}
}

const customerSearchQuery = `
query getCustomers($first: Int!, $query: String) {
  customers(first: $first, query: $query) {
    edges {
      node {
        id
        firstName
        lastName
        email
        tags
      }
    }
  }
}`

// SearchCustomers lists customers matching the Admin API search syntax
// (e.g. "email:a@x.com"). An empty query lists most recent customers.
func (c *Client) SearchCustomers(ctx context.Context, search string, limit int) ([]domain.Customer, error) {
	variables := map[string]any{"first": limit}
	if search != "" {
		variables["query"] = search
	}

	var out struct {
		Customers struct {
			Edges []struct {
				Node customerNode `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	if err := c.do(ctx, customerSearchQuery, variables, &out); err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(out.Customers.Edges))
	for _, e := range out.Customers.Edges {
		customers = append(customers, e.Node.toDomain())
	}
	return customers, nil
}

// FindByEmail looks up the customer whose email matches exactly.
func (c *Client) FindByEmail(ctx context.Context, email string, limit int) ([]domain.Customer, error) {
	return c.SearchCustomers(ctx, "email:"+email, limit)
}

// CustomerUpdateInput carries the mutable customer fields. Nil fields are left untouched.
type CustomerUpdateInput struct {
	ID        string
	FirstName *string
	LastName  *string
	Tags      []string
}

const customerUpdateMutation = `
mutation customerUpdate($input: CustomerInput!) {
  customerUpdate(input: $input) {
    customer {
      id
      firstName
      lastName
      email
      tags
    }
    userErrors {
      field
      message
    }
  }
}`

func (c *Client) UpdateCustomer(ctx context.Context, in CustomerUpdateInput) (*domain.Customer, error) {
	input := map[string]any{"id": normalizeGID(in.ID, "Customer")}
	if in.FirstName != nil {
		input["firstName"] = *in.FirstName
	}
	if in.LastName != nil {
		input["lastName"] = *in.LastName
	}
	if in.Tags != nil {
		input["tags"] = in.Tags
	}

	var out struct {
		CustomerUpdate struct {
			Customer   *customerNode `json:"customer"`
			UserErrors []userError   `json:"userErrors"`
		} `json:"customerUpdate"`
	}
	if err := c.do(ctx, customerUpdateMutation, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	if err := joinUserErrors(out.CustomerUpdate.UserErrors); err != nil {
		return nil, err
	}
	cust := out.CustomerUpdate.Customer.toDomain()
	return &cust, nil
}
