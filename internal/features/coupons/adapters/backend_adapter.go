package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/coupons/domain"
)

// BackendAdapter implements ports.CouponGateway against the commerce REST API.
type BackendAdapter struct {
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{backend: backend}
}

// couponBody is the write shape; usage counters belong to the backend.
type couponBody struct {
	Code      string          `json:"code"`
	Discount  domain.Discount `json:"discount"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Quantity  int             `json:"quantity"`
	Active    bool            `json:"isActive"`
}

func toBody(c domain.Coupon) couponBody {
	return couponBody{
		Code:      c.Code,
		Discount:  c.Discount,
		StartDate: c.StartDate.UTC().Format(timeLayout),
		EndDate:   c.EndDate.UTC().Format(timeLayout),
		Quantity:  c.Quantity,
		Active:    c.Active,
	}
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// List fetches GET /v1/coupons.
func (a *BackendAdapter) List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.Coupon], error) {
	var page pagination.Page[domain.Coupon]
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/coupons",
		Query:  q.Values(),
		Token:  token,
	}, &page); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return &page, nil
}

// ListActive fetches GET /v1/coupons/active, the coupons offered at checkout.
func (a *BackendAdapter) ListActive(ctx context.Context, token string) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/coupons/active",
		Token:  token,
	}, &coupons); err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}
	return coupons, nil
}

// Get fetches GET /v1/coupons/:id.
func (a *BackendAdapter) Get(ctx context.Context, token, id string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   httpclient.Pathf("/v1/coupons/%s", id),
		Token:  token,
	}, &coupon); err != nil {
		return nil, fmt.Errorf("failed to get coupon %s: %w", id, err)
	}
	return &coupon, nil
}

// Create sends POST /v1/coupons.
func (a *BackendAdapter) Create(ctx context.Context, token string, c domain.Coupon) (*domain.Coupon, error) {
	var created domain.Coupon
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/coupons",
		Token:  token,
		Body:   toBody(c),
	}, &created); err != nil {
		return nil, fmt.Errorf("failed to create coupon %s: %w", c.Code, err)
	}
	return &created, nil
}

// Update sends PUT /v1/coupons/:id.
func (a *BackendAdapter) Update(ctx context.Context, token, id string, c domain.Coupon) (*domain.Coupon, error) {
	var updated domain.Coupon
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   httpclient.Pathf("/v1/coupons/%s", id),
		Token:  token,
		Body:   toBody(c),
	}, &updated); err != nil {
		return nil, fmt.Errorf("failed to update coupon %s: %w", id, err)
	}
	return &updated, nil
}

// Delete sends DELETE /v1/coupons/:id.
func (a *BackendAdapter) Delete(ctx context.Context, token, id string) error {
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   httpclient.Pathf("/v1/coupons/%s", id),
		Token:  token,
	}, nil); err != nil {
		return fmt.Errorf("failed to delete coupon %s: %w", id, err)
	}
	return nil
}
