package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusProcessing},
	}
	for _, tt := range denied {
		if tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be rejected", tt.from, tt.to)
		}
	}

	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("delivered and cancelled should be terminal")
	}
	if OrderStatusPending.IsTerminal() {
		t.Fatal("pending should not be terminal")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("paypal")
	if err != nil || got != PaymentMethodPayPal {
		t.Fatalf("ParsePaymentMethod(paypal) = %v, %v", got, err)
	}
	if _, err := ParsePaymentMethod("cash"); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
	if PaymentMethodWhatsApp.RequiresShippingAddress() {
		t.Fatal("whatsapp should not require a shipping address")
	}
	if !PaymentMethodStripe.RequiresShippingAddress() {
		t.Fatal("stripe should require a shipping address")
	}
}
