package service

import (
	"context"
	"fmt"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/orders/domain"
	"storefront-gateway/internal/features/orders/ports"

	"go.uber.org/zap"
)

// OrderService applies the status policy before forwarding order changes to the backend.
type OrderService struct {
	// gateway is the backend order API.
	gateway ports.OrderGateway
	// locker keeps one status change per order in flight.
	locker inflight.Locker
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(gateway ports.OrderGateway, locker inflight.Locker) *OrderService {
	return &OrderService{
		gateway: gateway,
		locker:  locker,
	}
}

// ApplyTransition moves an order from its displayed status to a new one.
// Re-selecting the current status returns the order unchanged without a backend
// call. Illegal moves fail with domain.ErrInvalidTransition before any request.
// The check runs against the admin's displayed status, not the backend's
// current one; concurrent edits stay last-write-wins at the backend.
// The returned order is the backend's copy.
func (s *OrderService) ApplyTransition(ctx context.Context, token, orderID string, from, to domain.OrderStatus) (*domain.Order, error) {
	current := &domain.Order{ID: orderID, Status: from}
	if from == to && from.IsValid() {
		return current, nil
	}

	if err := current.CheckTransition(to); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "order-status:"+orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.gateway.UpdateStatus(ctx, token, orderID, to)
	if err != nil {
		return nil, err
	}

	// Some backend versions answer with an empty body.
	if updated.ID == "" {
		updated.ID = orderID
	}
	if updated.Status == "" {
		updated.Status = to
	}

	logger.Ctx(ctx).Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

// ListAdmin returns one page of orders for the admin table.
func (s *OrderService) ListAdmin(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.Order], error) {
	return s.gateway.ListAdmin(ctx, token, q.Normalize())
}

// ListMine returns the caller's order history.
func (s *OrderService) ListMine(ctx context.Context, token string) ([]domain.Order, error) {
	return s.gateway.ListMine(ctx, token)
}

// CancelMine cancels one of the caller's orders while it is still pending.
func (s *OrderService) CancelMine(ctx context.Context, token, orderID string) (*domain.Order, error) {
	orders, err := s.gateway.ListMine(ctx, token)
	if err != nil {
		return nil, err
	}

	var target *domain.Order
	for i := range orders {
		if orders[i].ID == orderID {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperror.ErrNotFound)
	}
	if !target.CustomerCancellable() {
		return nil, domain.ErrOrderNotCancellable
	}

	release, err := s.locker.Acquire(ctx, "order-cancel:"+orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	cancelled, err := s.gateway.Cancel(ctx, token, orderID)
	if err != nil {
		return nil, err
	}
	if cancelled.ID == "" {
		target.Status = domain.OrderStatusCancelled
		return target, nil
	}
	return cancelled, nil
}
