package ports

import (
	"context"

	"storefront-gateway/internal/features/dashboard/domain"
)

// DashboardService defines the primary port for the admin dashboard.
type DashboardService interface {
	Summary(ctx context.Context, token string) (*domain.Summary, error)
}

// DashboardGateway defines the secondary port to GET /v1/dashboard.
type DashboardGateway interface {
	Fetch(ctx context.Context, token string) (*domain.Stats, error)
}
