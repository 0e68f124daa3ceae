package orders

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"github.com/google/uuid"
)

// CustomerDetails is the buyer block captured at checkout.
type CustomerDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// LineInput is one priced product snapshot going into an order.
type LineInput struct {
	ProductID      uuid.UUID
	Title          string
	UnitPriceCents int64
	Quantity       int
}

// CreateInput captures everything needed to place an order.
type CreateInput struct {
	UserID        *uuid.UUID
	Customer      CustomerDetails
	Lines         []LineInput
	TotalCents    int64
	PaymentMethod enums.PaymentMethod
	PaymentStatus enums.PaymentStatus
	PaymentRef    string
}

// ListFilters describes the admin order search knobs.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	PaymentMethod *enums.PaymentMethod
	Search        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	MinTotalCents *int64
	MaxTotalCents *int64
}

// ListInput pairs admin filters with pagination.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ItemDTO is the wire shape for an order line.
type ItemDTO struct {
	ProductID      uuid.UUID `json:"productId"`
	Title          string    `json:"title"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int64     `json:"lineTotalCents"`
}

// OrderDTO is the wire shape for order reads.
type OrderDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   int64               `json:"orderNumber"`
	UserID        *uuid.UUID          `json:"userId,omitempty"`
	Customer      CustomerDetails     `json:"customer"`
	TotalCents    int64               `json:"totalCents"`
	Total         string              `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	Status        enums.OrderStatus   `json:"status"`
	Items         []ItemDTO           `json:"items"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// ReconciliationDTO is the admin view of a paid-but-unordered payment.
type ReconciliationDTO struct {
	ID          uuid.UUID           `json:"id"`
	Provider    enums.PaymentMethod `json:"provider"`
	ProviderRef string              `json:"providerRef"`
	AmountCents int64               `json:"amountCents"`
	Reason      string              `json:"reason"`
	Resolved    bool                `json:"resolved"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ToDTO maps the model to its wire shape.
func ToDTO(order models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ProductID:      item.ProductID,
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents(),
		})
	}
	return OrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Customer: CustomerDetails{
			Name:       order.CustomerName,
			Email:      order.CustomerEmail,
			Phone:      order.CustomerPhone,
			Address:    order.Address,
			City:       order.City,
			PostalCode: order.PostalCode,
		},
		TotalCents:    order.TotalCents,
		Total:         types.Cents(order.TotalCents).String(),
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Status:        order.Status,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToDTOs maps a slice of models.
func ToDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, ToDTO(order))
	}
	return out
}

func toReconciliationDTO(row models.PaymentReconciliation) ReconciliationDTO {
	return ReconciliationDTO{
		ID:          row.ID,
		Provider:    row.Provider,
		ProviderRef: row.ProviderRef,
		AmountCents: row.AmountCents,
		Reason:      row.Reason,
		Resolved:    row.Resolved,
		CreatedAt:   row.CreatedAt,
	}
}
