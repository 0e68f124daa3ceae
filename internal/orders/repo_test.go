package orders

import (
	"context"
	"testing"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, name string, totalCents int64, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		CustomerName:  name,
		CustomerEmail: name + "@example.com",
		CustomerPhone: "+96170123456",
		TotalCents:    totalCents,
		PaymentMethod: enums.PaymentMethodStripe,
		PaymentStatus: enums.PaymentStatusPaid,
		Status:        status,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Title: "Royal Oud 50ml", UnitPriceCents: totalCents, Quantity: 1},
		},
	}
	require.NoError(t, CreateTx(tx, order))
	return order
}

func TestRepositoryOrderFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	created := mustCreateTestOrder(t, tx, "lina", 4500, enums.OrderStatusPending)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.NotZero(t, created.OrderNumber)

	detail, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	require.Equal(t, int64(4500), detail.Items[0].LineTotalCents())

	detail.Status = enums.OrderStatusProcessing
	updated, err := repo.Update(ctx, detail)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusProcessing, updated.Status)
}

func TestRepositoryListPaginatedFilters(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	mustCreateTestOrder(t, tx, "karim", 2000, enums.OrderStatusPending)
	mustCreateTestOrder(t, tx, "karim", 8000, enums.OrderStatusShipped)
	mustCreateTestOrder(t, tx, "sara", 5000, enums.OrderStatusPending)

	pending := enums.OrderStatusPending
	items, total, err := repo.ListPaginated(ctx, ListInput{
		Filters:    ListFilters{Status: &pending, Search: "KARIM"},
		Pagination: pagination.Params{Page: 1, PageSize: 10}.Normalize(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, int64(2000), items[0].TotalCents)

	min := int64(4000)
	items, total, err = repo.ListPaginated(ctx, ListInput{
		Filters:    ListFilters{MinTotalCents: &min},
		Pagination: pagination.Params{Page: 1, PageSize: 10}.Normalize(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	from := time.Now().Add(time.Hour)
	_, total, err = repo.ListPaginated(ctx, ListInput{
		Filters:    ListFilters{CreatedFrom: &from},
		Pagination: pagination.Params{Page: 1, PageSize: 10}.Normalize(),
	})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestRepositoryReconciliations(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	row := &models.PaymentReconciliation{
		Provider:    enums.PaymentMethodPayPal,
		ProviderRef: "CAP-" + uuid.NewString(),
		AmountCents: 7500,
		Reason:      "order creation failed after capture",
	}
	require.NoError(t, repo.CreateReconciliation(ctx, row))

	rows, err := repo.ListReconciliations(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	require.NoError(t, repo.ResolveReconciliation(ctx, row.ID))
	require.ErrorIs(t, repo.ResolveReconciliation(ctx, uuid.New()), gorm.ErrRecordNotFound)
}
