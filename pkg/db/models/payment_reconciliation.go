package models

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// PaymentReconciliation records a captured payment that has no order behind
// it. Rows are worked off manually by support; nothing auto-refunds.
type PaymentReconciliation struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Provider    enums.PaymentMethod `gorm:"column:provider;type:text;not null"`
	ProviderRef string              `gorm:"column:provider_ref;not null"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	Reason      string              `gorm:"column:reason;not null"`
	Resolved    bool                `gorm:"column:resolved;not null;default:false"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
