package service

import (
	"context"
	"fmt"
	"time"

	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/validation"
	"storefront-gateway/internal/features/checkout/domain"
	"storefront-gateway/internal/features/checkout/ports"
	coupons "storefront-gateway/internal/features/coupons/domain"

	"go.uber.org/zap"
)

// CheckoutService implements ports.CheckoutService.
type CheckoutService struct {
	carts   ports.CartSource
	coupons ports.CouponSource
	placer  ports.OrderPlacer
	locker  inflight.Locker
	now     func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(carts ports.CartSource, couponSource ports.CouponSource, placer ports.OrderPlacer, locker inflight.Locker) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		coupons: couponSource,
		placer:  placer,
		locker:  locker,
		now:     time.Now,
	}
}

// SelectableCoupons lists the active coupons a customer can pick right now.
func (s *CheckoutService) SelectableCoupons(ctx context.Context, token string) ([]coupons.Coupon, error) {
	active, err := s.coupons.ListActive(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	selectable := make([]coupons.Coupon, 0, len(active))
	for _, c := range active {
		if c.Selectable(now) {
			selectable = append(selectable, c)
		}
	}
	return selectable, nil
}

// Quote prices the user's cart with an optional coupon. A coupon whose
// conditions are not met is reported on the quote, not as an error.
func (s *CheckoutService) Quote(ctx context.Context, token, userID, couponID string) (*domain.Quote, error) {
	cart, err := s.carts.Get(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.findCoupon(ctx, token, couponID)
	if err != nil {
		return nil, err
	}

	quote := domain.NewQuote(cart.Products, coupon)
	return &quote, nil
}

// PlaceOrder submits the cart as an order. Everything that can be checked
// locally is checked before the backend call.
func (s *CheckoutService) PlaceOrder(ctx context.Context, token, userID string, in domain.PlaceOrderInput) (*domain.Placement, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrCartEmpty
	}

	coupon, err := s.findCoupon(ctx, token, in.CouponID)
	if err != nil {
		return nil, err
	}
	if coupon != nil {
		if d := domain.ComputeDiscount(domain.Subtotal(cart.Products), coupon); !d.Applicable {
			return nil, fmt.Errorf("%w: %s", domain.ErrCouponInapplicable, d.Reason)
		}
	}

	release, err := s.locker.Acquire(ctx, "order-submit:"+userID)
	if err != nil {
		return nil, err
	}
	defer release()

	placement, err := s.placer.Place(ctx, token, in)
	if err != nil {
		return nil, err
	}

	s.carts.Forget(ctx, userID)
	logger.Ctx(ctx).Info("Order placed",
		zap.String("order_id", placement.ID),
		zap.String("user_id", userID),
		zap.String("payment_method", string(in.PaymentMethod)),
		zap.Bool("redirect", placement.PaymentURL != ""),
	)
	return placement, nil
}

func (s *CheckoutService) findCoupon(ctx context.Context, token, couponID string) (*coupons.Coupon, error) {
	if couponID == "" {
		return nil, nil
	}

	selectable, err := s.SelectableCoupons(ctx, token)
	if err != nil {
		return nil, err
	}
	for i := range selectable {
		if selectable[i].ID == couponID {
			return &selectable[i], nil
		}
	}
	return nil, domain.ErrCouponUnavailable
}
