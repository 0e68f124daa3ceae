package chat

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProductStat is a product mentioned in an answer.
type ProductStat struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Price     string    `json:"price,omitempty"`
	Stock     int       `json:"stock,omitempty"`
	UnitsSold int64     `json:"unitsSold,omitempty"`
}

// CategoryStat is one category's share of the catalog.
type CategoryStat struct {
	CategoryID   uuid.UUID `json:"categoryId"`
	Name         string    `json:"name"`
	ProductCount int64     `json:"productCount"`
}

// RevenueStat is the shop-wide revenue summary.
type RevenueStat struct {
	Total      string `json:"total"`
	TotalCents int64  `json:"totalCents"`
	OrderCount int64  `json:"orderCount"`
}

// Answer is a tagged response: QueryType says which payload field is set.
// Unknown questions carry only the fallback text.
type Answer struct {
	QueryType enums.ChatQueryType `json:"queryType"`
	Text      string              `json:"answer"`

	TopSelling   []ProductStat  `json:"topSelling,omitempty"`
	LowestPrice  *ProductStat   `json:"lowestPrice,omitempty"`
	HighestStock *ProductStat   `json:"highestStock,omitempty"`
	Categories   []CategoryStat `json:"categoryStatistics,omitempty"`
	ProductCount *int64         `json:"productCount,omitempty"`
	Revenue      *RevenueStat   `json:"totalRevenue,omitempty"`
}

// HistoryEntry is one turn of a stored conversation.
type HistoryEntry struct {
	Role      string              `json:"role"` // "user" or "assistant"
	Content   string              `json:"content"`
	QueryType enums.ChatQueryType `json:"queryType,omitempty"`
	At        time.Time           `json:"at"`
}
