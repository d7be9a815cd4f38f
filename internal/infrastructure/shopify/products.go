package shopify

import (
	"context"
	"fmt"
	"strings"

	"github.com/storefront-mcp/internal/domain"
)

const productFields = `
id
title
handle
status
tags
description
variants(first: 20) {
  edges {
    node {
      id
      title
      price
      sku
      inventoryQuantity
    }
  }
}`

type productNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Variants    struct {
		Edges []struct {
			Node struct {
				ID                string `json:"id"`
				Title             string `json:"title"`
				Price             string `json:"price"`
				SKU               string `json:"sku"`
				InventoryQuantity int    `json:"inventoryQuantity"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func (n *productNode) toDomain() domain.Product {
	p := domain.Product{
		ID:          n.ID,
		Title:       n.Title,
		Handle:      n.Handle,
		Status:      n.Status,
		Tags:        n.Tags,
		Description: n.Description,
	}
	for _, e := range n.Variants.Edges {
		p.Variants = append(p.Variants, domain.ProductVariant{
			ID:                e.Node.ID,
			Title:             e.Node.Title,
			Price:             e.Node.Price,
			SKU:               e.Node.SKU,
			InventoryQuantity: e.Node.InventoryQuantity,
		})
	}
	return p
}

// GetProducts lists products, optionally filtered by a title search.
func (c *Client) GetProducts(ctx context.Context, searchTitle string, limit int) ([]domain.Product, error) {
	query := fmt.Sprintf(`
query getProducts($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges { node { %s } }
  }
}`, productFields)

	variables := map[string]any{"first": limit}
	if searchTitle != "" {
		variables["query"] = "title:*" + searchTitle + "*"
	}

	var out struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.do(ctx, query, variables, &out); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(out.Products.Edges))
	for _, e := range out.Products.Edges {
		products = append(products, e.Node.toDomain())
	}
	return products, nil
}

// GetProductByID fetches a single product by numeric or global ID.
func (c *Client) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`
query getProduct($id: ID!) {
  product(id: $id) { %s }
}`, productFields)

	var out struct {
		Product *productNode `json:"product"`
	}
	if err := c.do(ctx, query, map[string]any{"id": normalizeGID(id, "Product")}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	p := out.Product.toDomain()
	return &p, nil
}

// normalizeGID accepts either a bare numeric ID or a full global identifier
// and returns the global form the Admin API expects.
func normalizeGID(id, resource string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return fmt.Sprintf("gid://shopify/%s/%s", resource, id)
}
