package testutil

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/google/uuid"
)

func NewTestSubject(name string) *domain.Subject {
	return &domain.Subject{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Obligation options
type ObligationOption func(*domain.Obligation)

func WithWeight(w float64) ObligationOption {
	return func(o *domain.Obligation) {
		o.Weight = &w
	}
}

func WithSubject(id string) ObligationOption {
	return func(o *domain.Obligation) {
		o.SubjectID = id
	}
}

func WithDescription(d string) ObligationOption {
	return func(o *domain.Obligation) {
		o.Description = d
	}
}

func WithColor(c string) ObligationOption {
	return func(o *domain.Obligation) {
		o.Color = c
	}
}

func WithObligationID(id string) ObligationOption {
	return func(o *domain.Obligation) {
		o.ID = id
	}
}

func NewTestObligation(title, due string, opts ...ObligationOption) *domain.Obligation {
	now := time.Now().UTC()
	o := &domain.Obligation{
		ID:        uuid.New().String(),
		Title:     title,
		DueDate:   due,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CalendarEntry options
type EntryOption func(*domain.CalendarEntry)

func WithTimes(start, end string) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.StartTime = start
		e.EndTime = end
	}
}

func WithEntryWeight(w float64) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.Weight = &w
	}
}

func WithEntryDescription(d string) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.Description = d
	}
}

func WithKind(k domain.EntryKind) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.Kind = k
	}
}

func WithExternalKey(key string) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.ExternalKey = key
		e.Source = domain.SourceICS
	}
}

func WithEntrySubject(id string) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.SubjectID = id
	}
}

// NewTestCalendarEntry creates an all-day manual event unless options say otherwise.
func NewTestCalendarEntry(title, date string, opts ...EntryOption) *domain.CalendarEntry {
	now := time.Now().UTC()
	e := &domain.CalendarEntry{
		ID:        uuid.New().String(),
		Title:     title,
		Kind:      domain.EntryEvent,
		Date:      date,
		Source:    domain.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
