package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/orders/domain"
)

// BackendAdapter implements ports.OrderGateway against the commerce REST API.
type BackendAdapter struct {
	// backend is the shared API client.
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{
		backend: backend,
	}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateStatus sends PATCH /v1/orders/admin/:id/status.
func (a *BackendAdapter) UpdateStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	var order domain.Order
	err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPatch,
		Path:   httpclient.Pathf("/v1/orders/admin/%s/status", orderID),
		Token:  token,
		Body:   statusRequest{Status: status},
	}, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s status: %w", orderID, err)
	}
	return &order, nil
}

// ListAdmin fetches GET /v1/orders/admin.
func (a *BackendAdapter) ListAdmin(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.Order], error) {
	var page pagination.Page[domain.Order]
	err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/orders/admin",
		Query:  q.Values(),
		Token:  token,
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &page, nil
}

// ListMine fetches GET /v1/orders/me.
func (a *BackendAdapter) ListMine(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/orders/me",
		Token:  token,
	}, &orders)
	if err != nil {
		return nil, fmt.Errorf("failed to list my orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Cancel sends PUT /v1/orders/:id/cancel.
func (a *BackendAdapter) Cancel(ctx context.Context, token, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   httpclient.Pathf("/v1/orders/%s/cancel", orderID),
		Token:  token,
	}, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", orderID, err)
	}
	return &order, nil
}
