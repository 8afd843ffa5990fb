package ports

import (
	"context"

	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/orders/domain"
)

// OrderService defines the primary port for order operations.
type OrderService interface {
	ApplyTransition(ctx context.Context, token, orderID string, from, to domain.OrderStatus) (*domain.Order, error)
	ListAdmin(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.Order], error)
	ListMine(ctx context.Context, token string) ([]domain.Order, error)
	CancelMine(ctx context.Context, token, orderID string) (*domain.Order, error)
}

// OrderGateway defines the secondary port to the backend order endpoints.
type OrderGateway interface {
	// UpdateStatus asks the backend to move the order to status and returns its new copy.
	UpdateStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) (*domain.Order, error)
	// ListAdmin returns one page of every customer's orders.
	ListAdmin(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.Order], error)
	// ListMine returns the caller's order history.
	ListMine(ctx context.Context, token string) ([]domain.Order, error)
	// Cancel cancels one of the caller's orders.
	Cancel(ctx context.Context, token, orderID string) (*domain.Order, error)
}
