package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"github.com/google/uuid"
)

const (
	recentOrdersLimit = 5

	defaultChartDays = 30
	maxChartDays     = 365
	defaultTopCount  = 5
	maxTopCount      = 50
)

// statusColors is the display palette the admin charts render with.
var statusColors = map[enums.OrderStatus]string{
	enums.OrderStatusPending:    "#ffc107",
	enums.OrderStatusProcessing: "#17a2b8",
	enums.OrderStatusShipped:    "#007bff",
	enums.OrderStatusDelivered:  "#28a745",
	enums.OrderStatusCancelled:  "#dc3545",
}

// Service exposes the admin dashboard aggregates.
type Service interface {
	Statistics(ctx context.Context) (*Statistics, error)
	StatisticsForRange(ctx context.Context, dateRange DateRange) (*Statistics, error)
	RevenueChart(ctx context.Context, days int) ([]RevenuePoint, error)
	OrderStatusChart(ctx context.Context) ([]StatusSlice, error)
	TopProducts(ctx context.Context, count int) ([]TopProduct, error)
}

type repository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context, from, to *time.Time) (int64, error)
	RevenueCents(ctx context.Context, from, to *time.Time) (int64, error)
	StatusCounts(ctx context.Context, from, to *time.Time) ([]StatusCount, error)
	RecentOrders(ctx context.Context, limit int, from, to *time.Time) ([]models.Order, error)
	RevenueByDay(ctx context.Context, since time.Time) ([]DailyRevenue, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	ProductImages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// NewService builds the dashboard service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.buildStatistics(ctx, nil, nil)
}

func (s *service) StatisticsForRange(ctx context.Context, dateRange DateRange) (*Statistics, error) {
	if dateRange.StartDate.IsZero() || dateRange.EndDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate and endDate are required")
	}
	if dateRange.EndDate.Before(dateRange.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}
	return s.buildStatistics(ctx, &dateRange.StartDate, &dateRange.EndDate)
}

func (s *service) buildStatistics(ctx context.Context, from, to *time.Time) (*Statistics, error) {
	stats := &Statistics{}
	var err error

	if stats.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	if stats.TotalCategories, err = s.repo.CountCategories(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting categories")
	}
	if stats.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting users")
	}
	if stats.TotalOrders, err = s.repo.CountOrders(ctx, from, to); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}

	if stats.RevenueCents, err = s.repo.RevenueCents(ctx, from, to); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing revenue")
	}
	stats.TotalRevenue = types.Cents(stats.RevenueCents).String()

	now := s.now().UTC()
	monthAgo := now.AddDate(0, 0, -30)
	weekAgo := now.AddDate(0, 0, -7)
	monthly, err := s.repo.RevenueCents(ctx, &monthAgo, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing monthly revenue")
	}
	weekly, err := s.repo.RevenueCents(ctx, &weekAgo, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing weekly revenue")
	}
	stats.MonthlyRevenue = types.Cents(monthly).String()
	stats.WeeklyRevenue = types.Cents(weekly).String()

	counts, err := s.repo.StatusCounts(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting order statuses")
	}
	for _, row := range counts {
		switch row.Status {
		case enums.OrderStatusPending:
			stats.PendingOrders = row.Count
		case enums.OrderStatusShipped:
			stats.ShippedOrders = row.Count
		case enums.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		case enums.OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		}
	}

	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent orders")
	}
	stats.RecentOrders = orders.ToDTOs(recent)

	return stats, nil
}

// RevenueChart returns one point per day for the trailing window, zero-filled
// so the chart has no holes.
func (s *service) RevenueChart(ctx context.Context, days int) ([]RevenuePoint, error) {
	if days <= 0 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}

	now := s.now().UTC()
	start := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	rows, err := s.repo.RevenueByDay(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating revenue")
	}
	byDay := make(map[string]DailyRevenue, len(rows))
	for _, row := range rows {
		byDay[row.Day.UTC().Format("2006-01-02")] = row
	}

	points := make([]RevenuePoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		row := byDay[day]
		points = append(points, RevenuePoint{
			Period:     day,
			Revenue:    types.Cents(row.Cents).String(),
			Cents:      row.Cents,
			OrderCount: row.OrderCount,
		})
	}
	return points, nil
}

// OrderStatusChart returns a slice per known status, zero counts included,
// each tagged with its display color.
func (s *service) OrderStatusChart(ctx context.Context) ([]StatusSlice, error) {
	counts, err := s.repo.StatusCounts(ctx, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting order statuses")
	}
	byStatus := make(map[enums.OrderStatus]int64, len(counts))
	for _, row := range counts {
		byStatus[row.Status] = row.Count
	}

	statuses := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	}
	slices := make([]StatusSlice, 0, len(statuses))
	for _, status := range statuses {
		slices = append(slices, StatusSlice{
			Status: status.String(),
			Count:  byStatus[status],
			Color:  statusColors[status],
		})
	}
	return slices, nil
}

func (s *service) TopProducts(ctx context.Context, count int) ([]TopProduct, error) {
	if count <= 0 {
		count = defaultTopCount
	}
	if count > maxTopCount {
		count = maxTopCount
	}

	rows, err := s.repo.TopProducts(ctx, count)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ranking products")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	images, err := s.repo.ProductImages(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving product images")
	}

	out := make([]TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopProduct{
			ProductID:    row.ProductID,
			ProductName:  row.Title,
			TotalSold:    row.UnitsSold,
			TotalRevenue: types.Cents(row.RevenueCents).String(),
			RevenueCents: row.RevenueCents,
			ImageURL:     images[row.ProductID],
		})
	}
	return out, nil
}
