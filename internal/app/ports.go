package app

import (
	"context"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type PlanUseCase interface {
	Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
}

type BackfillUseCase interface {
	Backfill(ctx context.Context, req BackfillRequest) (*BackfillResponse, error)
}

type CalendarImportUseCase interface {
	Import(ctx context.Context, req CalendarImportRequest) (*CalendarImportResponse, error)
}

type AddObligationUseCase interface {
	Create(ctx context.Context, o *domain.Obligation) error
}
