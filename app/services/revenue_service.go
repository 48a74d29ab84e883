package services

import (
	"context"
	"time"

	"github.com/lekhanhduy0411/tiemlen/app/models"
	"github.com/lekhanhduy0411/tiemlen/app/repositories"
	"github.com/lekhanhduy0411/tiemlen/pkg/cache"
)

const (
	cacheKeyRevenue = "revenue:stats"
	revenueTTL      = time.Minute
	monthlyWindow   = 12
)

// RevenueStats is the back-office dashboard payload.
type RevenueStats struct {
	TotalRevenue   float64                     `json:"totalRevenue"`
	TotalOrders    int64                       `json:"totalOrders"`
	TotalCustomers int64                       `json:"totalCustomers"`
	TotalProducts  int64                       `json:"totalProducts"`
	OrdersByStatus map[string]int64            `json:"ordersByStatus"`
	MonthlyRevenue []repositories.MonthRevenue `json:"monthlyRevenue"`
	TopProducts    []models.Product            `json:"topProducts"`
	RecentOrders   []models.Order              `json:"recentOrders"`
}

// RevenueService aggregates the dashboard numbers, cached for a minute to
// keep the aggregation pipelines off the hot path.
type RevenueService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	users    *repositories.UserRepository
}

func NewRevenueService(
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
	users *repositories.UserRepository,
) *RevenueService {
	return &RevenueService{orders: orders, products: products, users: users}
}

// Stats builds the dashboard snapshot.
func (s *RevenueService) Stats(ctx context.Context) (RevenueStats, error) {
	var stats RevenueStats
	if cache.Get(cacheKeyRevenue, &stats) {
		return stats, nil
	}

	revenue, err := s.orders.RevenueTotal(ctx)
	if err != nil {
		return RevenueStats{}, err
	}
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return RevenueStats{}, err
	}
	totalCustomers, err := s.users.CountCustomers(ctx)
	if err != nil {
		return RevenueStats{}, err
	}
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return RevenueStats{}, err
	}

	byStatus := map[string]int64{}
	for _, status := range []string{
		models.StatusPending, models.StatusConfirmed, models.StatusProcessing,
		models.StatusShipping, models.StatusDelivered, models.StatusCancelled,
	} {
		n, err := s.orders.CountByStatus(ctx, status)
		if err != nil {
			return RevenueStats{}, err
		}
		byStatus[status] = n
	}

	since := time.Now().AddDate(0, -monthlyWindow, 0)
	monthly, err := s.orders.MonthlyRevenue(ctx, since)
	if err != nil {
		return RevenueStats{}, err
	}
	top, err := s.products.TopSold(ctx, 5)
	if err != nil {
		return RevenueStats{}, err
	}
	recent, err := s.orders.Recent(ctx, 10)
	if err != nil {
		return RevenueStats{}, err
	}

	stats = RevenueStats{
		TotalRevenue:   revenue,
		TotalOrders:    totalOrders,
		TotalCustomers: totalCustomers,
		TotalProducts:  totalProducts,
		OrdersByStatus: byStatus,
		MonthlyRevenue: monthly,
		TopProducts:    top,
		RecentOrders:   recent,
	}
	cache.Set(cacheKeyRevenue, stats, revenueTTL)
	return stats, nil
}
