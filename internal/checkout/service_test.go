package checkout

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/ezzshop/ezzshop-backend/internal/cart"
	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/kvstore"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubOrderService struct {
	createFn func(ctx context.Context, input orders.CreateInput) (*orders.OrderDTO, error)

	created         []orders.CreateInput
	reconciliations []reconCall
}

type reconCall struct {
	provider    enums.PaymentMethod
	providerRef string
	amountCents int64
}

func (s *stubOrderService) Create(ctx context.Context, input orders.CreateInput) (*orders.OrderDTO, error) {
	s.created = append(s.created, input)
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	items := make([]orders.ItemDTO, 0, len(input.Lines))
	for _, line := range input.Lines {
		items = append(items, orders.ItemDTO{
			ProductID:      line.ProductID,
			Title:          line.Title,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: line.UnitPriceCents * int64(line.Quantity),
		})
	}
	return &orders.OrderDTO{
		ID:            uuid.New(),
		OrderNumber:   777,
		Customer:      input.Customer,
		TotalCents:    input.TotalCents,
		Total:         "45.00",
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: input.PaymentStatus,
		Status:        enums.OrderStatusPending,
		Items:         items,
	}, nil
}

func (s *stubOrderService) RecordReconciliation(ctx context.Context, provider enums.PaymentMethod, providerRef string, amountCents int64, reason string) error {
	s.reconciliations = append(s.reconciliations, reconCall{provider: provider, providerRef: providerRef, amountCents: amountCents})
	return nil
}

func (s *stubOrderService) Get(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) GetForUser(ctx context.Context, id, userID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) ListPaginated(ctx context.Context, input orders.ListInput) (pagination.Envelope[orders.OrderDTO], error) {
	return pagination.Envelope[orders.OrderDTO]{}, errors.New("not implemented")
}

func (s *stubOrderService) Cancel(ctx context.Context, id, userID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) RequestRefund(ctx context.Context, id, userID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) Refund(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) ListReconciliations(ctx context.Context) ([]orders.ReconciliationDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderService) ResolveReconciliation(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

type stubStripe struct {
	intent *stripe.PaymentIntent
	err    error
	calls  int
}

func (s *stubStripe) ConfirmPayment(ctx context.Context, amountCents int64, paymentMethodID string, customer orders.CustomerDetails) (*stripe.PaymentIntent, error) {
	s.calls++
	return s.intent, s.err
}

type stubPayPal struct {
	orderID     string
	approvalURL string
	createErr   error
	captureRef  string
	captureErr  error
}

func (s *stubPayPal) CreateOrder(ctx context.Context, amountCents int64, returnURL, cancelURL string) (string, string, error) {
	return s.orderID, s.approvalURL, s.createErr
}

func (s *stubPayPal) CaptureOrder(ctx context.Context, token string) (string, error) {
	return s.captureRef, s.captureErr
}

type fixture struct {
	svc    Service
	carts  cart.Service
	orders *stubOrderService
	store  kvstore.Store
	stripe *stubStripe
	paypal *stubPayPal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kvstore.NewMemoryStore()
	carts, err := cart.NewService(store, nil, 0, testLogger())
	if err != nil {
		t.Fatalf("cart.NewService: %v", err)
	}
	orderSvc := &stubOrderService{}
	stripeStub := &stubStripe{intent: &stripe.PaymentIntent{ID: "pi_123", Status: stripe.PaymentIntentStatusSucceeded}}
	paypalStub := &stubPayPal{orderID: "PP-ORDER-1", approvalURL: "https://paypal.example/approve/PP-ORDER-1", captureRef: "PP-CAPTURE-1"}

	svc, err := NewService(carts, orderSvc, store,
		stripeStub, paypalStub,
		config.WhatsAppConfig{BusinessNumber: "+96170000000"},
		config.CheckoutConfig{},
		testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, carts: carts, orders: orderSvc, store: store, stripe: stripeStub, paypal: paypalStub}
}

func (f *fixture) seedCart(t *testing.T, sessionID string) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), sessionID, cart.Item{
		ProductID:  uuid.New(),
		Title:      "Royal Oud 50ml",
		PriceCents: 1500,
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
}

func (f *fixture) cartSize(t *testing.T, sessionID string) int {
	t.Helper()
	items, err := f.carts.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("cart Get: %v", err)
	}
	return len(items)
}

func validCustomer() orders.CustomerDetails {
	return orders.CustomerDetails{
		Name:    "Lina Haddad",
		Email:   "lina@example.com",
		Phone:   "+96170123456",
		Address: "12 Cedar St",
		City:    "Beirut",
	}
}

func TestCheckoutWhatsAppCreatesOrderAndLink(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")

	res, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:      orders.CustomerDetails{Name: "Lina Haddad", Email: "lina@example.com", Phone: "+96170123456"},
		PaymentMethod: enums.PaymentMethodWhatsApp,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Order == nil || res.Order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending order, got %+v", res.Order)
	}
	if !strings.HasPrefix(res.WhatsAppLink, "https://wa.me/+96170000000?text=") {
		t.Fatalf("unexpected link: %s", res.WhatsAppLink)
	}
	if !strings.Contains(res.WhatsAppLink, "Royal+Oud+50ml") {
		t.Fatalf("link should carry the order lines: %s", res.WhatsAppLink)
	}
	if f.cartSize(t, "sess-1") != 0 {
		t.Fatal("cart should be cleared after a whatsapp order")
	}
	if got := f.orders.created[0].TotalCents; got != 4500 {
		t.Fatalf("expected total 4500, got %d", got)
	}
}

func TestCheckoutValidationNeverReachesProviders(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")

	// Phone is required on every path.
	_, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:      orders.CustomerDetails{Name: "Lina Haddad", Email: "lina@example.com"},
		PaymentMethod: enums.PaymentMethodWhatsApp,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	// Address and city only for the shipping methods.
	_, err = f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:              orders.CustomerDetails{Name: "Lina Haddad", Email: "lina@example.com", Phone: "+96170123456"},
		PaymentMethod:         enums.PaymentMethodStripe,
		StripePaymentMethodID: "pm_123",
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	if len(f.orders.created) != 0 {
		t.Fatal("no order may be created for invalid input")
	}
	if f.stripe.calls != 0 {
		t.Fatal("stripe must not be called for invalid input")
	}
	if f.cartSize(t, "sess-1") != 1 {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), "sess-empty", Input{
		Customer:      validCustomer(),
		PaymentMethod: enums.PaymentMethodWhatsApp,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCheckoutStripeSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")

	res, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:              validCustomer(),
		PaymentMethod:         enums.PaymentMethodStripe,
		StripePaymentMethodID: "pm_123",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Order == nil || res.Order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid order, got %+v", res.Order)
	}
	if f.orders.created[0].PaymentRef != "pi_123" {
		t.Fatalf("expected payment ref pi_123, got %q", f.orders.created[0].PaymentRef)
	}
	if f.cartSize(t, "sess-1") != 0 {
		t.Fatal("cart should be cleared after a successful charge")
	}
}

func TestCheckoutStripeDeclineSurfacesProviderMessage(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")
	f.stripe.intent = nil
	f.stripe.err = &stripe.Error{Msg: "Your card was declined."}

	_, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:              validCustomer(),
		PaymentMethod:         enums.PaymentMethodStripe,
		StripePaymentMethodID: "pm_123",
	})
	appErr := assertCode(t, err, pkgerrors.CodePayment)
	details, ok := appErr.Details().(map[string]any)
	if !ok || details["providerMessage"] != "Your card was declined." {
		t.Fatalf("expected verbatim provider message, got %+v", appErr.Details())
	}
	if len(f.orders.created) != 0 {
		t.Fatal("a declined charge must not create an order")
	}
	if f.cartSize(t, "sess-1") != 1 {
		t.Fatal("cart must survive a declined charge")
	}
}

func TestCheckoutStripeChargedButOrderFailed(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")
	f.orders.createFn = func(ctx context.Context, input orders.CreateInput) (*orders.OrderDTO, error) {
		return nil, errors.New("db down")
	}

	_, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:              validCustomer(),
		PaymentMethod:         enums.PaymentMethodStripe,
		StripePaymentMethodID: "pm_123",
	})
	assertCode(t, err, pkgerrors.CodeReconciliation)

	if len(f.orders.reconciliations) != 1 {
		t.Fatalf("expected one reconciliation, got %d", len(f.orders.reconciliations))
	}
	rec := f.orders.reconciliations[0]
	if rec.provider != enums.PaymentMethodStripe || rec.providerRef != "pi_123" || rec.amountCents != 4500 {
		t.Fatalf("unexpected reconciliation: %+v", rec)
	}
	if f.cartSize(t, "sess-1") != 1 {
		t.Fatal("cart must not be cleared when the order was not created")
	}
}

func TestCheckoutPayPalStoresDraftAndReturnsApprovalURL(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")

	res, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:      validCustomer(),
		PaymentMethod: enums.PaymentMethodPayPal,
		ReturnURL:     "https://shop.example/paypal/return",
		CancelURL:     "https://shop.example/paypal/cancel",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.ApprovalURL != "https://paypal.example/approve/PP-ORDER-1" || res.PayPalOrderID != "PP-ORDER-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := f.store.Get(context.Background(), "paypal_draft:sess-1"); err != nil {
		t.Fatalf("expected stored draft: %v", err)
	}
	if f.cartSize(t, "sess-1") != 1 {
		t.Fatal("cart stays until the capture leg completes")
	}
	if len(f.orders.created) != 0 {
		t.Fatal("no order before capture")
	}
}

func TestCapturePayPalCompletesTheOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")

	_, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:      validCustomer(),
		PaymentMethod: enums.PaymentMethodPayPal,
		ReturnURL:     "https://shop.example/paypal/return",
		CancelURL:     "https://shop.example/paypal/cancel",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	order, err := f.svc.CapturePayPal(context.Background(), "sess-1", "PP-ORDER-1")
	if err != nil {
		t.Fatalf("CapturePayPal: %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid order, got %s", order.PaymentStatus)
	}
	if f.orders.created[0].PaymentRef != "PP-CAPTURE-1" {
		t.Fatalf("expected capture ref, got %q", f.orders.created[0].PaymentRef)
	}
	if f.cartSize(t, "sess-1") != 0 {
		t.Fatal("cart should be cleared after capture")
	}
	if _, err := f.store.Get(context.Background(), "paypal_draft:sess-1"); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("draft should be deleted, got %v", err)
	}
}

func TestCapturePayPalWithoutDraftBecomesReconciliation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CapturePayPal(context.Background(), "sess-ghost", "PP-ORDER-1")
	assertCode(t, err, pkgerrors.CodeReconciliation)

	if len(f.orders.reconciliations) != 1 {
		t.Fatalf("expected one reconciliation, got %d", len(f.orders.reconciliations))
	}
	if f.orders.reconciliations[0].providerRef != "PP-CAPTURE-1" {
		t.Fatalf("unexpected reconciliation: %+v", f.orders.reconciliations[0])
	}
}

func TestCapturePayPalOrderFailureKeepsCartAndDraft(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "sess-1")
	_, err := f.svc.Checkout(context.Background(), "sess-1", Input{
		Customer:      validCustomer(),
		PaymentMethod: enums.PaymentMethodPayPal,
		ReturnURL:     "https://shop.example/paypal/return",
		CancelURL:     "https://shop.example/paypal/cancel",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	f.orders.createFn = func(ctx context.Context, input orders.CreateInput) (*orders.OrderDTO, error) {
		return nil, errors.New("db down")
	}

	_, err = f.svc.CapturePayPal(context.Background(), "sess-1", "PP-ORDER-1")
	assertCode(t, err, pkgerrors.CodeReconciliation)

	rec := f.orders.reconciliations[0]
	if rec.amountCents != 4500 {
		t.Fatalf("expected the draft total on the reconciliation, got %d", rec.amountCents)
	}
	if f.cartSize(t, "sess-1") != 1 {
		t.Fatal("cart must survive the failed capture leg")
	}
}

func TestCapturePayPalDecline(t *testing.T) {
	f := newFixture(t)
	f.paypal.captureRef = ""
	f.paypal.captureErr = errors.New("INSTRUMENT_DECLINED")

	_, err := f.svc.CapturePayPal(context.Background(), "sess-1", "PP-ORDER-1")
	assertCode(t, err, pkgerrors.CodePayment)
	if len(f.orders.reconciliations) != 0 {
		t.Fatal("a failed capture is not a reconciliation case")
	}
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != want {
		t.Fatalf("expected code %s, got %s", want, appErr.Code())
	}
	return appErr
}
