package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/ezzshop/ezzshop-backend/internal/cart"
	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/kvstore"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

// Service orchestrates the three payment paths. Validation failures never
// reach a provider or the database.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input Input) (*Result, error)
	CapturePayPal(ctx context.Context, sessionID, token string) (*orders.OrderDTO, error)
}

type service struct {
	carts  cart.Service
	orders orders.Service
	store  kvstore.Store
	stripe StripeChargeClient
	paypal PayPalOrderClient
	wa     config.WhatsAppConfig
	cfg    config.CheckoutConfig
	logg   *logger.Logger
}

// NewService builds the checkout orchestrator. The stripe and paypal clients
// may be nil; their paths then fail with a dependency error instead of at
// startup, so a shop running WhatsApp-only does not need provider keys.
func NewService(
	carts cart.Service,
	orderSvc orders.Service,
	store kvstore.Store,
	stripeClient StripeChargeClient,
	paypalClient PayPalOrderClient,
	wa config.WhatsAppConfig,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &service{
		carts:  carts,
		orders: orderSvc,
		store:  store,
		stripe: stripeClient,
		paypal: paypalClient,
		wa:     wa,
		cfg:    cfg,
		logg:   logg,
	}, nil
}

func draftKey(sessionID string) string {
	return "paypal_draft:" + sessionID
}

func (s *service) Checkout(ctx context.Context, sessionID string, input Input) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	items, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	lines, totalCents := linesFromCart(items)

	switch input.PaymentMethod {
	case enums.PaymentMethodWhatsApp:
		return s.checkoutWhatsApp(ctx, sessionID, input, lines, totalCents)
	case enums.PaymentMethodStripe:
		return s.checkoutStripe(ctx, sessionID, input, lines, totalCents)
	case enums.PaymentMethodPayPal:
		return s.checkoutPayPal(ctx, sessionID, input, lines, totalCents)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}
}

// validateInput is the gate in front of every payment path. Address and city
// are only demanded when the method ships to the customer directly; WhatsApp
// orders settle the address in the chat thread.
func validateInput(input Input) error {
	var missing []string
	if strings.TrimSpace(input.Customer.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Customer.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		missing = append(missing, "phone")
	}
	if input.PaymentMethod.RequiresShippingAddress() {
		if strings.TrimSpace(input.Customer.Address) == "" {
			missing = append(missing, "address")
		}
		if strings.TrimSpace(input.Customer.City) == "" {
			missing = append(missing, "city")
		}
	}
	if input.PaymentMethod == enums.PaymentMethodStripe && strings.TrimSpace(input.StripePaymentMethodID) == "" {
		missing = append(missing, "paymentMethodId")
	}
	if input.PaymentMethod == enums.PaymentMethodPayPal {
		if strings.TrimSpace(input.ReturnURL) == "" {
			missing = append(missing, "returnUrl")
		}
		if strings.TrimSpace(input.CancelURL) == "" {
			missing = append(missing, "cancelUrl")
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required checkout fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func linesFromCart(items []cart.Item) ([]orders.LineInput, int64) {
	lines := make([]orders.LineInput, 0, len(items))
	var total int64
	for _, item := range items {
		lines = append(lines, orders.LineInput{
			ProductID:      item.ProductID,
			Title:          item.Title,
			UnitPriceCents: int64(item.PriceCents),
			Quantity:       item.Quantity,
		})
		total += int64(item.LineTotalCents())
	}
	return lines, total
}

func (s *service) checkoutWhatsApp(ctx context.Context, sessionID string, input Input, lines []orders.LineInput, totalCents int64) (*Result, error) {
	order, err := s.orders.Create(ctx, orders.CreateInput{
		UserID:        input.UserID,
		Customer:      input.Customer,
		Lines:         lines,
		TotalCents:    totalCents,
		PaymentMethod: enums.PaymentMethodWhatsApp,
		PaymentStatus: enums.PaymentStatusPending,
	})
	if err != nil {
		return nil, err
	}

	link := buildWhatsAppLink(s.wa.BusinessNumber, *order)
	s.clearCart(ctx, sessionID)
	return &Result{Order: order, WhatsAppLink: link}, nil
}

func (s *service) checkoutStripe(ctx context.Context, sessionID string, input Input, lines []orders.LineInput, totalCents int64) (*Result, error) {
	if s.stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe payments are not configured")
	}

	intent, err := s.stripe.ConfirmPayment(ctx, totalCents, input.StripePaymentMethodID, input.Customer)
	if err != nil {
		var providerErr *stripe.Error
		if errors.As(err, &providerErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "payment was declined").
				WithDetails(map[string]any{"providerMessage": providerErr.Msg})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe request failed")
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment was declined").
			WithDetails(map[string]any{"intentStatus": string(intent.Status)})
	}

	order, err := s.orders.Create(ctx, orders.CreateInput{
		UserID:        input.UserID,
		Customer:      input.Customer,
		Lines:         lines,
		TotalCents:    totalCents,
		PaymentMethod: enums.PaymentMethodStripe,
		PaymentStatus: enums.PaymentStatusPaid,
		PaymentRef:    intent.ID,
	})
	if err != nil {
		return nil, s.reconcile(ctx, enums.PaymentMethodStripe, intent.ID, totalCents, err)
	}

	s.clearCart(ctx, sessionID)
	return &Result{Order: order}, nil
}

func (s *service) checkoutPayPal(ctx context.Context, sessionID string, input Input, lines []orders.LineInput, totalCents int64) (*Result, error) {
	if s.paypal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal payments are not configured")
	}

	orderID, approvalURL, err := s.paypal.CreateOrder(ctx, totalCents, input.ReturnURL, input.CancelURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal order creation failed")
	}

	draft := paypalDraft{
		UserID:          input.UserID,
		Customer:        input.Customer,
		Lines:           lines,
		TotalCents:      totalCents,
		ProviderOrderID: orderID,
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding checkout draft")
	}
	// The draft must land before the customer is redirected; a lost draft
	// after approval means a captured payment with no order to attach to.
	if err := s.store.Set(ctx, draftKey(sessionID), string(payload), s.cfg.DraftTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing checkout draft")
	}

	return &Result{ApprovalURL: approvalURL, PayPalOrderID: orderID}, nil
}

// CapturePayPal is the return leg of the PayPal flow: the customer approved
// the payment at the provider and came back carrying the order token.
func (s *service) CapturePayPal(ctx context.Context, sessionID, token string) (*orders.OrderDTO, error) {
	if s.paypal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal payments are not configured")
	}
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paypal order token is required")
	}

	captureRef, err := s.paypal.CaptureOrder(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "payment was declined").
			WithDetails(map[string]any{"providerMessage": err.Error()})
	}

	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		// Money has moved and the order payload is gone. Nothing left to
		// do automatically except flag it for support.
		return nil, s.reconcile(ctx, enums.PaymentMethodPayPal, captureRef, 0, err)
	}

	order, err := s.orders.Create(ctx, orders.CreateInput{
		UserID:        draft.UserID,
		Customer:      draft.Customer,
		Lines:         draft.Lines,
		TotalCents:    draft.TotalCents,
		PaymentMethod: enums.PaymentMethodPayPal,
		PaymentStatus: enums.PaymentStatusPaid,
		PaymentRef:    captureRef,
	})
	if err != nil {
		return nil, s.reconcile(ctx, enums.PaymentMethodPayPal, captureRef, draft.TotalCents, err)
	}

	s.clearCart(ctx, sessionID)
	if err := s.store.Delete(ctx, draftKey(sessionID)); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to delete paypal draft after capture")
	}
	return order, nil
}

func (s *service) loadDraft(ctx context.Context, sessionID string) (*paypalDraft, error) {
	raw, err := s.store.Get(ctx, draftKey(sessionID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, fmt.Errorf("no checkout draft for session")
		}
		return nil, fmt.Errorf("loading checkout draft: %w", err)
	}
	var draft paypalDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("decoding checkout draft: %w", err)
	}
	return &draft, nil
}

// reconcile records a captured payment that could not become an order and
// converts the failure into the support-facing error. The cart is left
// untouched so nothing else is lost.
func (s *service) reconcile(ctx context.Context, provider enums.PaymentMethod, providerRef string, amountCents int64, cause error) error {
	reason := "order creation failed after successful payment: " + cause.Error()
	if err := s.orders.RecordReconciliation(ctx, provider, providerRef, amountCents, reason); err != nil && s.logg != nil {
		s.logg.Error(ctx, "reconciliation row could not be recorded", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeReconciliation, cause,
		"payment captured but order creation failed; support has been notified")
}

func (s *service) clearCart(ctx context.Context, sessionID string) {
	if err := s.carts.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to clear cart after checkout")
	}
}
