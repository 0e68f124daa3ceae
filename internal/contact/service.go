package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageDTO is the wire shape for a contact submission.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitInput is the public contact-form payload.
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Service exposes the contact form operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error)
	ListPaginated(ctx context.Context, params pagination.Params) (pagination.Envelope[MessageDTO], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	ListPaginated(ctx context.Context, params pagination.Params) ([]models.ContactMessage, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds the contact service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(input.Body) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required contact fields").
			WithDetails(map[string]any{"missing": missing})
	}

	msg, err := s.repo.Create(ctx, &models.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing contact message")
	}

	dto := toDTO(msg)
	return &dto, nil
}

func (s *service) ListPaginated(ctx context.Context, params pagination.Params) (pagination.Envelope[MessageDTO], error) {
	params = params.Normalize()
	items, total, err := s.repo.ListPaginated(ctx, params)
	if err != nil {
		return pagination.Envelope[MessageDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing contact messages")
	}
	dtos := make([]MessageDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toDTO(&items[i]))
	}
	return pagination.NewEnvelope(dtos, total, params), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "contact message not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting contact message")
	}
	return nil
}

func toDTO(msg *models.ContactMessage) MessageDTO {
	return MessageDTO{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}
