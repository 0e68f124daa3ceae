package products

import (
	"context"
	"testing"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRepo struct {
	products  map[uuid.UUID]*models.Product
	listErr   error
	lastInput ListInput
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) ListPaginated(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	s.lastInput = input
	items, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, int64(len(items)), nil
}

func (s *stubRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	ctx := context.Background()

	cases := []CreateInput{
		{Title: "", PriceCents: 100, CategoryID: uuid.New()},
		{Title: "x", PriceCents: -1, CategoryID: uuid.New()},
		{Title: "x", PriceCents: 100, Stock: -1, CategoryID: uuid.New()},
		{Title: "x", PriceCents: 100},
	}
	for i, input := range cases {
		_, err := svc.Create(ctx, input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Title:      "  Royal Oud ",
		PriceCents: 24999,
		Stock:      5,
		CategoryID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Title != "Royal Oud" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Price != "249.99" {
		t.Fatalf("expected formatted price, got %q", created.Price)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("round trip mismatch")
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Title:      "Royal Oud",
		PriceCents: 24999,
		Stock:      5,
		CategoryID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newPrice := int64(19999)
	updated, err := svc.Update(ctx, created.ID, UpdateInput{PriceCents: &newPrice})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PriceCents != 19999 {
		t.Fatalf("expected new price, got %d", updated.PriceCents)
	}
	if updated.Title != "Royal Oud" {
		t.Fatalf("untouched field changed: %q", updated.Title)
	}

	empty := " "
	if _, err := svc.Update(ctx, created.ID, UpdateInput{Title: &empty}); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for blank title")
	}
}

func TestListPaginatedNormalizesParams(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, _ := NewService(repo)

	env, err := svc.ListPaginated(context.Background(), ListInput{
		Pagination: pagination.Params{Page: -3, PageSize: 0},
	})
	if err != nil {
		t.Fatalf("ListPaginated failed: %v", err)
	}
	if env.PageNumber != 1 {
		t.Fatalf("expected page clamped to 1, got %d", env.PageNumber)
	}
	if repo.lastInput.Pagination.Page != 1 {
		t.Fatalf("repo should receive normalized params, got %+v", repo.lastInput.Pagination)
	}
}

func TestDeleteNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo())
	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
