package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/features/checkout/domain"
)

// BackendAdapter implements ports.OrderPlacer against the commerce REST API.
type BackendAdapter struct {
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{backend: backend}
}

// Place sends POST /v1/orders. couponId is omitted when no coupon was chosen.
func (a *BackendAdapter) Place(ctx context.Context, token string, in domain.PlaceOrderInput) (*domain.Placement, error) {
	var placement domain.Placement
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/orders",
		Token:  token,
		Body:   in,
	}, &placement); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	return &placement, nil
}
