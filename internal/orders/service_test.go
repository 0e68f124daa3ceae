package orders

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ezzshop/ezzshop-backend/internal/products"
	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubRepo struct {
	orders          map[uuid.UUID]*models.Order
	reconciliations []models.PaymentReconciliation
	updateErr       error
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubRepo) ListPaginated(ctx context.Context, input ListInput) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (s *stubRepo) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubRepo) CreateReconciliation(ctx context.Context, row *models.PaymentReconciliation) error {
	row.ID = uuid.New()
	s.reconciliations = append(s.reconciliations, *row)
	return nil
}

func (s *stubRepo) ListReconciliations(ctx context.Context) ([]models.PaymentReconciliation, error) {
	return s.reconciliations, nil
}

func (s *stubRepo) ResolveReconciliation(ctx context.Context, id uuid.UUID) error {
	for i := range s.reconciliations {
		if s.reconciliations[i].ID == id {
			s.reconciliations[i].Resolved = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *stubRepo) *service {
	t.Helper()
	svc, err := NewService(repo, stubTx{}, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc.(*service)
}

func seedOrder(repo *stubRepo, userID *uuid.UUID, status enums.OrderStatus, payment enums.PaymentStatus) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   1001,
		UserID:        userID,
		CustomerName:  "Lina Haddad",
		CustomerEmail: "lina@example.com",
		CustomerPhone: "+96170123456",
		TotalCents:    4500,
		PaymentMethod: enums.PaymentMethodStripe,
		PaymentStatus: payment,
		Status:        status,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Title: "Royal Oud 50ml", UnitPriceCents: 4500, Quantity: 1},
		},
	}
	repo.orders[order.ID] = order
	return order
}

func TestCreateSnapshotsLinesAndDecrementsStock(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	var decremented []int
	svc.decrementStock = func(tx *gorm.DB, productID uuid.UUID, quantity int) error {
		decremented = append(decremented, quantity)
		return nil
	}
	svc.insertOrder = func(tx *gorm.DB, order *models.Order) error {
		order.ID = uuid.New()
		order.OrderNumber = 500
		return nil
	}

	userID := uuid.New()
	dto, err := svc.Create(context.Background(), CreateInput{
		UserID: &userID,
		Customer: CustomerDetails{
			Name:  "Lina Haddad",
			Email: "lina@example.com",
			Phone: "+96170123456",
		},
		Lines: []LineInput{
			{ProductID: uuid.New(), Title: "Royal Oud 50ml", UnitPriceCents: 4500, Quantity: 2},
			{ProductID: uuid.New(), Title: "Amber Musk 30ml", UnitPriceCents: 2000, Quantity: 1},
		},
		TotalCents:    11000,
		PaymentMethod: enums.PaymentMethodWhatsApp,
		PaymentStatus: enums.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(decremented) != 2 {
		t.Fatalf("expected 2 stock decrements, got %d", len(decremented))
	}
	if dto.OrderNumber != 500 {
		t.Fatalf("expected order number 500, got %d", dto.OrderNumber)
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if len(dto.Items) != 2 || dto.Items[0].LineTotalCents != 9000 {
		t.Fatalf("unexpected items: %+v", dto.Items)
	}
	if dto.Total != "110.00" {
		t.Fatalf("expected formatted total 110.00, got %s", dto.Total)
	}
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc := newTestService(t, newStubRepo())
	_, err := svc.Create(context.Background(), CreateInput{})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateMapsInsufficientStockToConflict(t *testing.T) {
	svc := newTestService(t, newStubRepo())
	svc.decrementStock = func(tx *gorm.DB, productID uuid.UUID, quantity int) error {
		return products.ErrInsufficientStock
	}
	_, err := svc.Create(context.Background(), CreateInput{
		Lines:         []LineInput{{ProductID: uuid.New(), Title: "Royal Oud 50ml", UnitPriceCents: 4500, Quantity: 99}},
		TotalCents:    445500,
		PaymentMethod: enums.PaymentMethodStripe,
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestCancelPendingOnly(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	userID := uuid.New()

	pending := seedOrder(repo, &userID, enums.OrderStatusPending, enums.PaymentStatusPending)
	dto, err := svc.Cancel(context.Background(), pending.ID, userID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if dto.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", dto.Status)
	}

	shipped := seedOrder(repo, &userID, enums.OrderStatusShipped, enums.PaymentStatusPaid)
	_, err = svc.Cancel(context.Background(), shipped.ID, userID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelForeignOrderReadsAsNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ownerID := uuid.New()

	order := seedOrder(repo, &ownerID, enums.OrderStatusPending, enums.PaymentStatusPending)
	_, err := svc.Cancel(context.Background(), order.ID, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRequestRefundRequiresPaid(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	userID := uuid.New()

	paid := seedOrder(repo, &userID, enums.OrderStatusProcessing, enums.PaymentStatusPaid)
	dto, err := svc.RequestRefund(context.Background(), paid.ID, userID)
	if err != nil {
		t.Fatalf("RequestRefund: %v", err)
	}
	if dto.PaymentStatus != enums.PaymentStatusRefundRequested {
		t.Fatalf("expected refund_requested, got %s", dto.PaymentStatus)
	}

	unpaid := seedOrder(repo, &userID, enums.OrderStatusPending, enums.PaymentStatusPending)
	_, err = svc.RequestRefund(context.Background(), unpaid.ID, userID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestUpdateStatusFollowsPipeline(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	order := seedOrder(repo, nil, enums.OrderStatusPending, enums.PaymentStatusPaid)
	dto, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if dto.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", dto.Status)
	}

	// Pending may not jump straight to delivered.
	skipped := seedOrder(repo, nil, enums.OrderStatusPending, enums.PaymentStatusPaid)
	_, err = svc.UpdateStatus(context.Background(), skipped.ID, enums.OrderStatusDelivered)
	assertCode(t, err, pkgerrors.CodeStateConflict)

	terminal := seedOrder(repo, nil, enums.OrderStatusDelivered, enums.PaymentStatusPaid)
	_, err = svc.UpdateStatus(context.Background(), terminal.ID, enums.OrderStatusProcessing)
	assertCode(t, err, pkgerrors.CodeStateConflict)

	_, err = svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatus("mislaid"))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRefundMarksRefundedAndCancelsOpenOrders(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	order := seedOrder(repo, nil, enums.OrderStatusProcessing, enums.PaymentStatusRefundRequested)
	dto, err := svc.Refund(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if dto.PaymentStatus != enums.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", dto.PaymentStatus)
	}
	if dto.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled after refund, got %s", dto.Status)
	}

	delivered := seedOrder(repo, nil, enums.OrderStatusDelivered, enums.PaymentStatusPaid)
	dto, err = svc.Refund(context.Background(), delivered.ID)
	if err != nil {
		t.Fatalf("Refund delivered: %v", err)
	}
	if dto.Status != enums.OrderStatusDelivered {
		t.Fatalf("delivered order should keep its status, got %s", dto.Status)
	}

	unpaid := seedOrder(repo, nil, enums.OrderStatusPending, enums.PaymentStatusPending)
	_, err = svc.Refund(context.Background(), unpaid.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestReconciliationLifecycle(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	err := svc.RecordReconciliation(ctx, enums.PaymentMethodStripe, "pi_123", 4500, "order creation failed after capture")
	if err != nil {
		t.Fatalf("RecordReconciliation: %v", err)
	}

	rows, err := svc.ListReconciliations(ctx)
	if err != nil {
		t.Fatalf("ListReconciliations: %v", err)
	}
	if len(rows) != 1 || rows[0].ProviderRef != "pi_123" || rows[0].Resolved {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if err := svc.ResolveReconciliation(ctx, rows[0].ID); err != nil {
		t.Fatalf("ResolveReconciliation: %v", err)
	}
	rows, _ = svc.ListReconciliations(ctx)
	if !rows[0].Resolved {
		t.Fatal("expected row to be resolved")
	}

	err = svc.ResolveReconciliation(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
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
}
