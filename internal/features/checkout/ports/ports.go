package ports

import (
	"context"

	cart "storefront-gateway/internal/features/cart/domain"
	"storefront-gateway/internal/features/checkout/domain"
	coupons "storefront-gateway/internal/features/coupons/domain"
)

// CheckoutService defines the checkout operations exposed to handlers.
type CheckoutService interface {
	SelectableCoupons(ctx context.Context, token string) ([]coupons.Coupon, error)
	Quote(ctx context.Context, token, userID, couponID string) (*domain.Quote, error)
	PlaceOrder(ctx context.Context, token, userID string, in domain.PlaceOrderInput) (*domain.Placement, error)
}

// CartSource reads the cart being checked out and drops its mirror once ordered.
type CartSource interface {
	Get(ctx context.Context, token, userID string) (*cart.Cart, error)
	Forget(ctx context.Context, userID string)
}

// CouponSource lists the coupons currently offered by the backend.
type CouponSource interface {
	ListActive(ctx context.Context, token string) ([]coupons.Coupon, error)
}

// OrderPlacer submits a new order to the backend.
type OrderPlacer interface {
	Place(ctx context.Context, token string, in domain.PlaceOrderInput) (*domain.Placement, error)
}
