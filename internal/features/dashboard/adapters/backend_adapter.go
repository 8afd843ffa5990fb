package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/features/dashboard/domain"
)

// BackendAdapter implements ports.DashboardGateway against the commerce REST API.
type BackendAdapter struct {
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{backend: backend}
}

// Fetch calls GET /v1/dashboard.
func (a *BackendAdapter) Fetch(ctx context.Context, token string) (*domain.Stats, error) {
	var stats domain.Stats
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/dashboard",
		Token:  token,
	}, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard: %w", err)
	}
	return &stats, nil
}
