package service

import (
	"context"
	"strings"
	"time"

	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/coupons/domain"
	"storefront-gateway/internal/features/coupons/ports"

	"go.uber.org/zap"
)

// CouponService enforces the redemption lock before forwarding coupon edits.
type CouponService struct {
	gateway ports.CouponGateway
	locker  inflight.Locker
	now     func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(gateway ports.CouponGateway, locker inflight.Locker) *CouponService {
	return &CouponService{
		gateway: gateway,
		locker:  locker,
		now:     time.Now,
	}
}

// List returns one page of coupons with their derived state.
func (s *CouponService) List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.View], error) {
	page, err := s.gateway.List(ctx, token, q.Normalize())
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]domain.View, 0, len(page.Items))
	for _, c := range page.Items {
		views = append(views, domain.NewView(c, now))
	}
	return &pagination.Page[domain.View]{Items: views, Pagination: page.Pagination}, nil
}

// Get returns one coupon with its derived state.
func (s *CouponService) Get(ctx context.Context, token, id string) (*domain.View, error) {
	c, err := s.gateway.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	view := domain.NewView(*c, s.now())
	return &view, nil
}

// Create validates a new coupon and sends it to the backend.
func (s *CouponService) Create(ctx context.Context, token string, c domain.Coupon) (*domain.View, error) {
	c.ID = ""
	c.UsedCount = 0
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if err := c.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "coupon-create:"+c.Code)
	if err != nil {
		return nil, err
	}
	defer release()

	created, err := s.gateway.Create(ctx, token, c)
	if err != nil {
		return nil, err
	}
	view := domain.NewView(*created, s.now())
	return &view, nil
}

// Update loads the current coupon, rejects edits to frozen fields, then
// forwards the merged coupon. Concurrent admin edits stay last-write-wins.
func (s *CouponService) Update(ctx context.Context, token, id string, edit domain.CouponEdit) (*domain.View, error) {
	current, err := s.gateway.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.ApplyEdit(edit)
	if err != nil {
		logger.Ctx(ctx).Info("Coupon edit rejected", zap.String("coupon_id", id), zap.Error(err))
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "coupon-update:"+id)
	if err != nil {
		return nil, err
	}
	defer release()

	saved, err := s.gateway.Update(ctx, token, id, updated)
	if err != nil {
		return nil, err
	}
	view := domain.NewView(*saved, s.now())
	return &view, nil
}

// Delete removes a coupon.
func (s *CouponService) Delete(ctx context.Context, token, id string) error {
	release, err := s.locker.Acquire(ctx, "coupon-delete:"+id)
	if err != nil {
		return err
	}
	defer release()

	return s.gateway.Delete(ctx, token, id)
}
