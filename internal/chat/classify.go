package chat

import (
	"strings"

	"github.com/ezzshop/ezzshop-backend/pkg/enums"
)

// classifierRules map keyword groups to query types. First match wins, so
// the more specific groups sit on top.
var classifierRules = []struct {
	queryType enums.ChatQueryType
	keywords  []string
}{
	{enums.ChatQueryTopSelling, []string{"top selling", "best selling", "best seller", "bestseller", "most sold", "most popular", "الأكثر مبيعا"}},
	{enums.ChatQueryLowestPrice, []string{"cheapest", "lowest price", "least expensive", "أرخص"}},
	{enums.ChatQueryHighestStock, []string{"highest stock", "most stock", "most in stock", "largest stock", "الأكثر توفرا"}},
	{enums.ChatQueryCategoryStatistics, []string{"category statistics", "categories", "per category", "الفئات"}},
	{enums.ChatQueryProductCount, []string{"how many products", "product count", "number of products", "كم منتج"}},
	{enums.ChatQueryTotalRevenue, []string{"total revenue", "revenue", "total sales", "earnings", "الإيرادات"}},
}

// classify maps a free-text question to a query type by keyword matching.
func classify(question string) enums.ChatQueryType {
	normalized := strings.ToLower(strings.TrimSpace(question))
	for _, rule := range classifierRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.queryType
			}
		}
	}
	return enums.ChatQueryUnknown
}
