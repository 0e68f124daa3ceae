package checkout

import (
	"context"
	"fmt"

	paypalsdk "github.com/plutov/paypal/v4"

	pkgpaypal "github.com/ezzshop/ezzshop-backend/pkg/paypal"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
)

// PayPalOrderClient exposes the subset of PayPal operations the checkout
// flow needs.
type PayPalOrderClient interface {
	CreateOrder(ctx context.Context, amountCents int64, returnURL, cancelURL string) (orderID, approvalURL string, err error)
	CaptureOrder(ctx context.Context, token string) (captureRef string, err error)
}

type paypalOrderWrapper struct {
	api      *paypalsdk.Client
	currency string
}

// NewPayPalOrderClient wraps the configured PayPal client so the checkout
// service can be tested.
func NewPayPalOrderClient(client *pkgpaypal.Client) PayPalOrderClient {
	if client == nil {
		return nil
	}
	return &paypalOrderWrapper{api: client.API(), currency: client.Currency()}
}

func (w *paypalOrderWrapper) CreateOrder(ctx context.Context, amountCents int64, returnURL, cancelURL string) (string, string, error) {
	order, err := w.api.CreateOrder(ctx, paypalsdk.OrderIntentCapture,
		[]paypalsdk.PurchaseUnitRequest{{
			Amount: &paypalsdk.PurchaseUnitAmount{
				Currency: w.currency,
				Value:    types.Cents(amountCents).String(),
			},
		}},
		nil,
		&paypalsdk.ApplicationContext{
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		})
	if err != nil {
		return "", "", err
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return order.ID, link.Href, nil
		}
	}
	return "", "", fmt.Errorf("paypal order %s has no approval link", order.ID)
}

func (w *paypalOrderWrapper) CaptureOrder(ctx context.Context, token string) (string, error) {
	resp, err := w.api.CaptureOrder(ctx, token, paypalsdk.CaptureOrderRequest{})
	if err != nil {
		return "", err
	}
	if resp.Status != "COMPLETED" {
		return "", fmt.Errorf("paypal capture for order %s finished with status %s", resp.ID, resp.Status)
	}
	return resp.ID, nil
}
