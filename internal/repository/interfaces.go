package repository

import (
	"context"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type SubjectRepo interface {
	Create(ctx context.Context, s *domain.Subject) error
	GetByID(ctx context.Context, id string) (*domain.Subject, error)
	GetByName(ctx context.Context, name string) (*domain.Subject, error)
	List(ctx context.Context) ([]*domain.Subject, error)
}

type ObligationRepo interface {
	Create(ctx context.Context, o *domain.Obligation) error
	GetByID(ctx context.Context, id string) (*domain.Obligation, error)
	List(ctx context.Context) ([]domain.Obligation, error)
	Update(ctx context.Context, o *domain.Obligation) error
	Delete(ctx context.Context, id string) error
}

type CalendarRepo interface {
	Create(ctx context.Context, e *domain.CalendarEntry) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEntry, error)
	// ListBetween returns entries dated in [from, to).
	ListBetween(ctx context.Context, from, to string) ([]domain.CalendarEntry, error)
	// ListIncomplete returns the subject's entries lacking a weight or a
	// description, ordered by date.
	ListIncomplete(ctx context.Context, subjectID string) ([]domain.CalendarEntry, error)
	// UpsertExternal inserts or refreshes an imported occurrence keyed by
	// ExternalKey. Stored weight and non-empty descriptions are kept.
	UpsertExternal(ctx context.Context, e *domain.CalendarEntry) (created bool, err error)
	UpdateMetadata(ctx context.Context, id string, weight *float64, description string) error
	Delete(ctx context.Context, id string) error
}

type StudyBlockRepo interface {
	// ReplaceFrom deletes every block dated on or after from and inserts blocks.
	ReplaceFrom(ctx context.Context, from string, blocks []domain.StudyBlock) error
	// ListBetween returns blocks dated in [from, to), ordered by date and start.
	ListBetween(ctx context.Context, from, to string) ([]domain.StudyBlock, error)
}
