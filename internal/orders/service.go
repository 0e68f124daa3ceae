package orders

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ezzshop/ezzshop-backend/internal/products"
	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// txRunner abstracts the transactional boundary the order pipeline runs in.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListPaginated(ctx context.Context, input ListInput) ([]models.Order, int64, error)
	Update(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateReconciliation(ctx context.Context, row *models.PaymentReconciliation) error
	ListReconciliations(ctx context.Context) ([]models.PaymentReconciliation, error)
	ResolveReconciliation(ctx context.Context, id uuid.UUID) error
}

// Service exposes the order pipeline.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListPaginated(ctx context.Context, input ListInput) (pagination.Envelope[OrderDTO], error)
	Cancel(ctx context.Context, id, userID uuid.UUID) (*OrderDTO, error)
	RequestRefund(ctx context.Context, id, userID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	Refund(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	RecordReconciliation(ctx context.Context, provider enums.PaymentMethod, providerRef string, amountCents int64, reason string) error
	ListReconciliations(ctx context.Context) ([]ReconciliationDTO, error)
	ResolveReconciliation(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
	tx   txRunner
	logg *logger.Logger

	decrementStock func(tx *gorm.DB, productID uuid.UUID, quantity int) error
	insertOrder    func(tx *gorm.DB, order *models.Order) error
}

// NewService builds the order service.
func NewService(repo repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		logg = logger.New(logger.Options{Output: io.Discard})
	}
	return &service{
		repo:           repo,
		tx:             tx,
		logg:           logg,
		decrementStock: products.DecrementStockTx,
		insertOrder:    CreateTx,
	}, nil
}

// Create places an order: the line item snapshot and every stock decrement
// commit in one transaction, so an oversold line rolls the whole order back.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	order := &models.Order{
		UserID:        input.UserID,
		CustomerName:  input.Customer.Name,
		CustomerEmail: input.Customer.Email,
		CustomerPhone: input.Customer.Phone,
		Address:       input.Customer.Address,
		City:          input.Customer.City,
		PostalCode:    input.Customer.PostalCode,
		TotalCents:    input.TotalCents,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: input.PaymentStatus,
		PaymentRef:    input.PaymentRef,
		Status:        enums.OrderStatusPending,
	}
	for _, line := range input.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      line.ProductID,
			Title:          line.Title,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, line := range input.Lines {
			if err := s.decrementStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return s.insertOrder(tx, order)
	})
	if err != nil {
		if errors.Is(err, products.ErrInsufficientStock) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "one or more items are out of stock")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"order_number":   order.OrderNumber,
		"payment_method": order.PaymentMethod.String(),
	})
	s.logg.Info(logCtx, "order placed")

	dto := ToDTO(*order)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*order)
	return &dto, nil
}

// GetForUser loads an order only if it belongs to the user. Foreign orders
// read as not found rather than forbidden so ids stay unguessable.
func (s *service) GetForUser(ctx context.Context, id, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOwnedOrder(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*order)
	return &dto, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return ToDTOs(items), nil
}

func (s *service) ListPaginated(ctx context.Context, input ListInput) (pagination.Envelope[OrderDTO], error) {
	input.Pagination = input.Pagination.Normalize()
	items, total, err := s.repo.ListPaginated(ctx, input)
	if err != nil {
		return pagination.Envelope[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return pagination.NewEnvelope(ToDTOs(items), total, input.Pagination), nil
}

// Cancel lets the owner abandon an order that is still pending.
func (s *service) Cancel(ctx context.Context, id, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOwnedOrder(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}
	order.Status = enums.OrderStatusCancelled
	return s.saveOrder(ctx, order)
}

// RequestRefund flags a paid order for manual refund review.
func (s *service) RequestRefund(ctx context.Context, id, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOwnedOrder(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("refund requires a paid order, payment status is %q", order.PaymentStatus))
	}
	order.PaymentStatus = enums.PaymentStatusRefundRequested
	return s.saveOrder(ctx, order)
}

// UpdateStatus advances an order along the fulfilment pipeline. Transitions
// outside the pipeline are rejected without touching the row.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", next))
	}
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %q to %q", order.Status, next))
	}
	order.Status = next
	return s.saveOrder(ctx, order)
}

// Refund marks an order refunded. The money movement itself happens at the
// provider's dashboard; this records the outcome.
func (s *service) Refund(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	switch order.PaymentStatus {
	case enums.PaymentStatusPaid, enums.PaymentStatusRefundRequested:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot refund order with payment status %q", order.PaymentStatus))
	}
	order.PaymentStatus = enums.PaymentStatusRefunded
	if !order.Status.IsTerminal() {
		order.Status = enums.OrderStatusCancelled
	}
	return s.saveOrder(ctx, order)
}

func (s *service) RecordReconciliation(ctx context.Context, provider enums.PaymentMethod, providerRef string, amountCents int64, reason string) error {
	row := &models.PaymentReconciliation{
		Provider:    provider,
		ProviderRef: providerRef,
		AmountCents: amountCents,
		Reason:      reason,
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"provider":     provider.String(),
		"provider_ref": providerRef,
		"amount_cents": amountCents,
	})
	if err := s.repo.CreateReconciliation(ctx, row); err != nil {
		s.logg.Error(logCtx, "failed to persist reconciliation row", err)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording reconciliation")
	}
	s.logg.Warn(logCtx, "payment captured without order, reconciliation recorded")
	return nil
}

func (s *service) ListReconciliations(ctx context.Context) ([]ReconciliationDTO, error) {
	rows, err := s.repo.ListReconciliations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reconciliations")
	}
	out := make([]ReconciliationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReconciliationDTO(row))
	}
	return out, nil
}

func (s *service) ResolveReconciliation(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.ResolveReconciliation(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reconciliation entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving reconciliation")
	}
	return nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) findOwnedOrder(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) saveOrder(ctx context.Context, order *models.Order) (*OrderDTO, error) {
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	dto := ToDTO(*updated)
	return &dto, nil
}
