package checkout

import (
	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// Input is everything the customer submits at checkout.
type Input struct {
	UserID        *uuid.UUID
	Customer      orders.CustomerDetails
	PaymentMethod enums.PaymentMethod

	// Stripe path only.
	StripePaymentMethodID string

	// PayPal path only: where the provider sends the customer back.
	ReturnURL string
	CancelURL string
}

// Result is the outcome of a checkout attempt. Which fields are set depends
// on the payment method: whatsapp and stripe finish with an order, paypal
// hands back an approval URL and completes later via the capture leg.
type Result struct {
	Order         *orders.OrderDTO `json:"order,omitempty"`
	WhatsAppLink  string           `json:"whatsappLink,omitempty"`
	ApprovalURL   string           `json:"approvalUrl,omitempty"`
	PayPalOrderID string           `json:"paypalOrderId,omitempty"`
}

// paypalDraft is the order payload parked in the KV store between the
// approval redirect and the capture leg.
type paypalDraft struct {
	UserID          *uuid.UUID             `json:"userId,omitempty"`
	Customer        orders.CustomerDetails `json:"customer"`
	Lines           []orders.LineInput     `json:"lines"`
	TotalCents      int64                  `json:"totalCents"`
	ProviderOrderID string                 `json:"providerOrderId"`
}
