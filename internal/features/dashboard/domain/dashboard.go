package domain

import (
	"storefront-gateway/internal/core/money"
	orders "storefront-gateway/internal/features/orders/domain"
)

// Stats is the backend's dashboard aggregate.
type Stats struct {
	MonthlyRevenue   money.Amount   `json:"monthlyRevenue"`
	TotalOrders      int            `json:"totalOrders"`
	NewCustomers     int            `json:"newCustomers"`
	LowStockProducts int            `json:"lowStockProducts"`
	RecentOrders     []orders.Order `json:"recentOrders"`
	RevenueByDay     []RevenuePoint `json:"revenueByDay,omitempty"`
	OrdersByStatus   []StatusCount  `json:"ordersByStatus,omitempty"`
}

// RevenuePoint is one point of the revenue chart.
type RevenuePoint struct {
	Label   string       `json:"label"`
	Revenue money.Amount `json:"revenue"`
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status orders.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// StatusShare is a StatusCount with its share of all orders.
type StatusShare struct {
	StatusCount
	Percent float64 `json:"percent"`
}

// RecentOrder is a row of the recent orders table.
type RecentOrder struct {
	ID         string             `json:"_id"`
	Customer   string             `json:"customer"`
	Status     orders.OrderStatus `json:"status"`
	FinalPrice string             `json:"finalPrice"`
	CreatedAt  string             `json:"createdAt"`
}

// Summary is what the dashboard screen renders.
type Summary struct {
	Stats
	Formatted struct {
		MonthlyRevenue string        `json:"monthlyRevenue"`
		RecentOrders   []RecentOrder `json:"recentOrders"`
	} `json:"formatted"`
	StatusShares []StatusShare `json:"statusShares"`
}

// Summarize formats s for display.
func Summarize(s Stats) Summary {
	if s.RecentOrders == nil {
		s.RecentOrders = []orders.Order{}
	}

	sum := Summary{Stats: s}
	sum.Formatted.MonthlyRevenue = money.FormatVND(s.MonthlyRevenue)

	sum.Formatted.RecentOrders = make([]RecentOrder, 0, len(s.RecentOrders))
	for _, o := range s.RecentOrders {
		sum.Formatted.RecentOrders = append(sum.Formatted.RecentOrders, RecentOrder{
			ID:         o.ID,
			Customer:   o.ShippingAddress.Fullname,
			Status:     o.Status,
			FinalPrice: money.FormatVND(o.FinalPrice),
			CreatedAt:  money.FormatDate(o.CreatedAt, nil),
		})
	}

	total := 0
	for _, c := range s.OrdersByStatus {
		total += c.Count
	}
	sum.StatusShares = make([]StatusShare, 0, len(s.OrdersByStatus))
	for _, c := range s.OrdersByStatus {
		share := StatusShare{StatusCount: c}
		if total > 0 {
			share.Percent = money.UsagePercent(c.Count, total)
		}
		sum.StatusShares = append(sum.StatusShares, share)
	}
	return sum
}
