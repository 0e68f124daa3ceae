package cart

import (
	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"github.com/google/uuid"
)

// Item is one cart line: a product snapshot plus the chosen quantity.
// Prices are snapshotted at add time; catalog edits do not reprice a cart.
type Item struct {
	ProductID  uuid.UUID   `json:"productId"`
	Title      string      `json:"title"`
	PriceCents types.Cents `json:"priceCents"`
	ImageURL   string      `json:"imageUrl"`
	Stock      int         `json:"stock"`
	Quantity   int         `json:"quantity"`
}

// LineTotalCents returns price times quantity for the line.
func (i Item) LineTotalCents() types.Cents {
	return i.PriceCents * types.Cents(i.Quantity)
}
