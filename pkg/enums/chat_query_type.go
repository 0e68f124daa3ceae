package enums

import "fmt"

// ChatQueryType tags the classified intent of a chatbot question. Each
// response payload is typed per query type.
type ChatQueryType string

const (
	ChatQueryTopSelling         ChatQueryType = "top_selling"
	ChatQueryLowestPrice        ChatQueryType = "lowest_price"
	ChatQueryHighestStock       ChatQueryType = "highest_stock"
	ChatQueryCategoryStatistics ChatQueryType = "category_statistics"
	ChatQueryProductCount       ChatQueryType = "product_count"
	ChatQueryTotalRevenue       ChatQueryType = "total_revenue"
	ChatQueryUnknown            ChatQueryType = "unknown"
)

var validChatQueryTypes = []ChatQueryType{
	ChatQueryTopSelling,
	ChatQueryLowestPrice,
	ChatQueryHighestStock,
	ChatQueryCategoryStatistics,
	ChatQueryProductCount,
	ChatQueryTotalRevenue,
	ChatQueryUnknown,
}

// IsValid reports whether the value is a known ChatQueryType.
func (c ChatQueryType) IsValid() bool {
	for _, candidate := range validChatQueryTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatQueryType converts raw input into a ChatQueryType.
func ParseChatQueryType(value string) (ChatQueryType, error) {
	for _, candidate := range validChatQueryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat query type %q", value)
}
