package checkout

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/ezzshop/ezzshop-backend/internal/orders"
	pkgstripe "github.com/ezzshop/ezzshop-backend/pkg/stripe"
)

// StripeChargeClient exposes the subset of Stripe operations the checkout
// flow needs.
type StripeChargeClient interface {
	ConfirmPayment(ctx context.Context, amountCents int64, paymentMethodID string, customer orders.CustomerDetails) (*stripe.PaymentIntent, error)
}

type stripeChargeWrapper struct {
	currency string
}

// NewStripeChargeClient wraps the configured Stripe client so the checkout
// service can be tested.
func NewStripeChargeClient(api *pkgstripe.Client) StripeChargeClient {
	if api == nil {
		return nil
	}
	return &stripeChargeWrapper{currency: api.Currency()}
}

// ConfirmPayment creates and confirms a PaymentIntent in a single call. The
// redirect-based flows are disabled so the outcome is known synchronously.
func (w *stripeChargeWrapper) ConfirmPayment(ctx context.Context, amountCents int64, paymentMethodID string, customer orders.CustomerDetails) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(w.currency),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		ReceiptEmail: stripe.String(customer.Email),
	}
	params.Context = ctx
	return paymentintent.New(params)
}
