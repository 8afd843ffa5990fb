package ports

import (
	"context"

	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/coupons/domain"
)

// CouponService defines the primary port for coupon administration.
type CouponService interface {
	List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.View], error)
	Get(ctx context.Context, token, id string) (*domain.View, error)
	Create(ctx context.Context, token string, coupon domain.Coupon) (*domain.View, error)
	Update(ctx context.Context, token, id string, edit domain.CouponEdit) (*domain.View, error)
	Delete(ctx context.Context, token, id string) error
}

// CouponGateway defines the secondary port to the backend coupon endpoints.
type CouponGateway interface {
	List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.Coupon], error)
	ListActive(ctx context.Context, token string) ([]domain.Coupon, error)
	Get(ctx context.Context, token, id string) (*domain.Coupon, error)
	Create(ctx context.Context, token string, coupon domain.Coupon) (*domain.Coupon, error)
	Update(ctx context.Context, token, id string, coupon domain.Coupon) (*domain.Coupon, error)
	Delete(ctx context.Context, token, id string) error
}
