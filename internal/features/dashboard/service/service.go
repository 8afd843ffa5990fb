package service

import (
	"context"

	"storefront-gateway/internal/features/dashboard/domain"
	"storefront-gateway/internal/features/dashboard/ports"
)

// DashboardService builds the admin dashboard.
type DashboardService struct {
	gateway ports.DashboardGateway
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(gateway ports.DashboardGateway) *DashboardService {
	return &DashboardService{gateway: gateway}
}

// Summary returns the formatted dashboard.
func (s *DashboardService) Summary(ctx context.Context, token string) (*domain.Summary, error) {
	stats, err := s.gateway.Fetch(ctx, token)
	if err != nil {
		return nil, err
	}
	sum := domain.Summarize(*stats)
	return &sum, nil
}
