package models

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// Order is a placed order with its customer block and line item snapshot.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber int64     `gorm:"column:order_number;not null;uniqueIndex;autoIncrement"`

	UserID *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	User   *User      `gorm:"foreignKey:UserID"`

	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerEmail string `gorm:"column:customer_email;not null"`
	CustomerPhone string `gorm:"column:customer_phone;not null"`
	Address       string `gorm:"column:address;not null;default:''"`
	City          string `gorm:"column:city;not null;default:''"`
	PostalCode    string `gorm:"column:postal_code;not null;default:''"`

	TotalCents    int64               `gorm:"column:total_cents;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:pending"`
	PaymentRef    string              `gorm:"column:payment_ref;not null;default:''"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:pending"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a priced snapshot of one product at order time. Later catalog
// edits never change what the customer was charged.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Title          string    `gorm:"column:title;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

// LineTotalCents returns unit price times quantity.
func (i OrderItem) LineTotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
