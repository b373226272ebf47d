package service

import (
	"context"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/enrichment"
)

type SubjectService interface {
	Create(ctx context.Context, s *domain.Subject) error
	List(ctx context.Context) ([]*domain.Subject, error)
	// Resolve finds a subject by ID or, failing that, by name.
	Resolve(ctx context.Context, idOrName string) (*domain.Subject, error)
}

type ObligationService interface {
	app.AddObligationUseCase
	GetByID(ctx context.Context, id string) (*domain.Obligation, error)
	List(ctx context.Context) ([]domain.Obligation, error)
	Update(ctx context.Context, o *domain.Obligation) error
	Delete(ctx context.Context, id string) error
}

type CalendarService interface {
	Create(ctx context.Context, e *domain.CalendarEntry) error
	ListBetween(ctx context.Context, from, to string) ([]domain.CalendarEntry, error)
	Delete(ctx context.Context, id string) error
}

type PlanService interface {
	app.PlanUseCase
	// ListBlocks returns stored study blocks dated in [from, from+days).
	ListBlocks(ctx context.Context, from string, days int) ([]domain.StudyBlock, error)
}

type BackfillService interface {
	app.BackfillUseCase
}

type CalendarImportService interface {
	app.CalendarImportUseCase
}

// Enricher turns assignments into study blocks. *enrichment.Gateway
// satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, assignments []domain.Assignment) enrichment.Result
}

// CandidateExtractor reads match candidates out of free text.
// *enrichment.Extractor satisfies it.
type CandidateExtractor interface {
	Extract(ctx context.Context, subjectID, syllabus string) ([]domain.MatchCandidate, error)
}
