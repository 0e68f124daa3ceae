package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRepo struct {
	messages map[uuid.UUID]*models.ContactMessage
}

func newStubRepo() *stubRepo {
	return &stubRepo{messages: make(map[uuid.UUID]*models.ContactMessage)}
}

func (s *stubRepo) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	msg.ID = uuid.New()
	s.messages[msg.ID] = msg
	return msg, nil
}

func (s *stubRepo) ListPaginated(ctx context.Context, params pagination.Params) ([]models.ContactMessage, int64, error) {
	out := make([]models.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.messages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.messages, id)
	return nil
}

func TestSubmitAndDelete(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dto, err := svc.Submit(context.Background(), SubmitInput{
		Name:    "Lina Haddad",
		Email:   "Lina@Example.com",
		Subject: "Delivery question",
		Body:    "When does the Beirut order ship?",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if dto.Email != "lina@example.com" {
		t.Fatalf("expected lowercased email, got %s", dto.Email)
	}

	env, err := svc.ListPaginated(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("ListPaginated: %v", err)
	}
	if env.TotalCount != 1 {
		t.Fatalf("expected 1 message, got %d", env.TotalCount)
	}

	if err := svc.Delete(context.Background(), dto.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err = svc.Delete(context.Background(), dto.ID)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Submit(context.Background(), SubmitInput{Name: "Lina", Email: "lina@example.com"})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
