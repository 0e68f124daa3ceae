package enums

import "fmt"

// PaymentMethod is the checkout path chosen by the customer.
type PaymentMethod string

const (
	PaymentMethodWhatsApp PaymentMethod = "whatsapp"
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodPayPal   PaymentMethod = "paypal"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodWhatsApp,
	PaymentMethodStripe,
	PaymentMethodPayPal,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresShippingAddress reports whether the method needs address and
// city at checkout. WhatsApp orders settle the address in the chat thread.
func (p PaymentMethod) RequiresShippingAddress() bool {
	return p == PaymentMethodStripe || p == PaymentMethodPayPal
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
