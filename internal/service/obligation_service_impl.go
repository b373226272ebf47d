package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/google/uuid"
)

type obligationService struct {
	obligations repository.ObligationRepo
}

func NewObligationService(obligations repository.ObligationRepo) ObligationService {
	return &obligationService{obligations: obligations}
}

func (s *obligationService) Create(ctx context.Context, o *domain.Obligation) error {
	if err := validateObligation(o); err != nil {
		return err
	}
	now := time.Now().UTC()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	return s.obligations.Create(ctx, o)
}

func (s *obligationService) GetByID(ctx context.Context, id string) (*domain.Obligation, error) {
	return s.obligations.GetByID(ctx, id)
}

func (s *obligationService) List(ctx context.Context) ([]domain.Obligation, error) {
	return s.obligations.List(ctx)
}

func (s *obligationService) Update(ctx context.Context, o *domain.Obligation) error {
	if err := validateObligation(o); err != nil {
		return err
	}
	o.UpdatedAt = time.Now().UTC()
	return s.obligations.Update(ctx, o)
}

func (s *obligationService) Delete(ctx context.Context, id string) error {
	return s.obligations.Delete(ctx, id)
}

func validateObligation(o *domain.Obligation) error {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		return validationErrorf("obligation title is required")
	}
	o.DueDate = strings.TrimSpace(o.DueDate)
	if _, err := domain.ParseDate(o.DueDate); err != nil {
		return validationErrorf("due date: %v", err)
	}
	return validateWeight(o.Weight)
}
