package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/google/uuid"
)

type calendarService struct {
	entries repository.CalendarRepo
}

func NewCalendarService(entries repository.CalendarRepo) CalendarService {
	return &calendarService{entries: entries}
}

// Create stores a manually entered calendar entry.
func (s *calendarService) Create(ctx context.Context, e *domain.CalendarEntry) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return validationErrorf("entry title is required")
	}
	if _, err := domain.ParseDate(e.Date); err != nil {
		return validationErrorf("date: %v", err)
	}
	if err := validateTimes(e.StartTime, e.EndTime); err != nil {
		return err
	}
	if err := validateWeight(e.Weight); err != nil {
		return err
	}
	if e.Kind == "" {
		e.Kind = domain.EntryEvent
	}
	if !domain.ValidEntryKinds[string(e.Kind)] {
		return validationErrorf("unknown entry kind %q", e.Kind)
	}

	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.Source = domain.SourceManual
	e.ExternalKey = ""
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.entries.Create(ctx, e)
}

func (s *calendarService) ListBetween(ctx context.Context, from, to string) ([]domain.CalendarEntry, error) {
	return s.entries.ListBetween(ctx, from, to)
}

func (s *calendarService) Delete(ctx context.Context, id string) error {
	return s.entries.Delete(ctx, id)
}
