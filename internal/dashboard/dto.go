package dashboard

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/google/uuid"
)

// Statistics is the admin dashboard summary.
type Statistics struct {
	TotalProducts   int64             `json:"totalProducts"`
	TotalCategories int64             `json:"totalCategories"`
	TotalUsers      int64             `json:"totalUsers"`
	TotalOrders     int64             `json:"totalOrders"`
	TotalRevenue    string            `json:"totalRevenue"`
	RevenueCents    int64             `json:"revenueCents"`
	MonthlyRevenue  string            `json:"monthlyRevenue"`
	WeeklyRevenue   string            `json:"weeklyRevenue"`
	PendingOrders   int64             `json:"pendingOrders"`
	ShippedOrders   int64             `json:"shippedOrders"`
	DeliveredOrders int64             `json:"deliveredOrders"`
	CancelledOrders int64             `json:"cancelledOrders"`
	RecentOrders    []orders.OrderDTO `json:"recentOrders"`
}

// DateRange bounds the date-range statistics query.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// RevenuePoint is one day on the revenue chart.
type RevenuePoint struct {
	Period     string `json:"period"`
	Revenue    string `json:"revenue"`
	Cents      int64  `json:"revenueCents"`
	OrderCount int64  `json:"orderCount"`
}

// StatusSlice is one status on the order-status chart.
type StatusSlice struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Color  string `json:"color"`
}

// TopProduct is one row of the best-sellers table.
type TopProduct struct {
	ProductID    uuid.UUID `json:"productId"`
	ProductName  string    `json:"productName"`
	TotalSold    int64     `json:"totalSold"`
	TotalRevenue string    `json:"totalRevenue"`
	RevenueCents int64     `json:"revenueCents"`
	ImageURL     string    `json:"imageUrl"`
}
