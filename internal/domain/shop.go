package domain

// Shop entities returned by the upstream commerce API. IDs are Shopify
// global identifiers (e.g. "gid://shopify/Customer/123").

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

type ProductVariant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type Product struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Handle      string           `json:"handle"`
	Status      string           `json:"status,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

type Customer struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type LineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    Money  `json:"price"`
}

type Order struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	CreatedAt         string     `json:"created_at"`
	FinancialStatus   string     `json:"financial_status,omitempty"`
	FulfillmentStatus string     `json:"fulfillment_status,omitempty"`
	TotalPrice        Money      `json:"total_price"`
	Note              string     `json:"note,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	LineItems         []LineItem `json:"line_items,omitempty"`
}
