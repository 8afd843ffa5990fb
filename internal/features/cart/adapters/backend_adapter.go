package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/features/cart/domain"
)

// BackendAdapter implements ports.CartGateway against the commerce REST API.
type BackendAdapter struct {
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{backend: backend}
}

// mutationBody sends sku as null for products without variants.
type mutationBody struct {
	ProductID string  `json:"productId"`
	SKU       *string `json:"sku"`
	Quantity  int     `json:"quantity"`
}

func toBody(m domain.Mutation) mutationBody {
	body := mutationBody{ProductID: m.ProductID, Quantity: m.Quantity}
	if m.SKU != "" {
		sku := m.SKU
		body.SKU = &sku
	}
	return body
}

// Fetch fetches GET /v1/carts.
func (a *BackendAdapter) Fetch(ctx context.Context, token string) (*domain.Cart, error) {
	return a.do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/v1/carts", Token: token}, "fetch")
}

// Add sends POST /v1/carts/add.
func (a *BackendAdapter) Add(ctx context.Context, token string, m domain.Mutation) (*domain.Cart, error) {
	return a.do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/v1/carts/add", Token: token, Body: toBody(m)}, "add to")
}

// Update sends PUT /v1/carts/update. Quantity 0 removes the line.
func (a *BackendAdapter) Update(ctx context.Context, token string, m domain.Mutation) (*domain.Cart, error) {
	return a.do(ctx, httpclient.Request{Method: http.MethodPut, Path: "/v1/carts/update", Token: token, Body: toBody(m)}, "update")
}

func (a *BackendAdapter) do(ctx context.Context, r httpclient.Request, verb string) (*domain.Cart, error) {
	var cart domain.Cart
	if err := a.backend.Do(ctx, r, &cart); err != nil {
		return nil, fmt.Errorf("failed to %s cart: %w", verb, err)
	}
	cart.Normalize()
	return &cart, nil
}
