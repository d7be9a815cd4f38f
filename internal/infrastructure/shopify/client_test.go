package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient: srv.Client(),
		endpoint:   srv.URL,
		token:      "test-token",
	}
}

func TestDo_SetsAccessTokenHeader(t *testing.T) {
	var gotToken string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	})

	err := c.do(context.Background(), "query { shop { name } }", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-token", gotToken)
}

func TestDo_GraphQLErrorsSurface(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "Field 'bogus' doesn't exist"}},
		})
	})

	err := c.do(context.Background(), "query { bogus }", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestDo_NonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.do(context.Background(), "query { shop { name } }", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestListOrdersByCustomer_FiltersById(t *testing.T) {
	var gotVars map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotVars = req.Variables
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"orders": map[string]any{
					"edges": []map[string]any{
						{"node": map[string]any{"id": "gid://shopify/Order/1", "name": "#1001", "createdAt": time.Now().Format(time.RFC3339)}},
					},
				},
			},
		})
	})

	orders, err := c.ListOrdersByCustomer(context.Background(), "207119551", 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "#1001", orders[0].Name)
	assert.Equal(t, "customer_id:207119551", gotVars["query"])
}

func TestNormalizeGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Product/42", normalizeGID("42", "Product"))
	assert.Equal(t, "gid://shopify/Product/42", normalizeGID("gid://shopify/Product/42", "Product"))
}
