package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/calendar"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/google/uuid"
)

type calendarImportService struct {
	subjects repository.SubjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCalendarImportService(subjects repository.SubjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CalendarImportService {
	return &calendarImportService{
		subjects: subjects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Import loads an ICS feed and upserts every occurrence in [From, To).
// Re-importing the same feed refreshes entries without duplicating them.
func (s *calendarImportService) Import(ctx context.Context, req app.CalendarImportRequest) (resp *app.CalendarImportResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"source": req.Source}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "calendar_import",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if req.SubjectID != "" {
		if _, err := s.subjects.GetByID(ctx, req.SubjectID); err != nil {
			return nil, fmt.Errorf("loading subject: %w", err)
		}
	}
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}

	body, err := calendar.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	events, skipped, err := calendar.Parse(body, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}
	expanded, err := calendar.Expand(events, calendar.ExpandOptions{
		From:      req.From,
		To:        req.To,
		Location:  loc,
		SubjectID: req.SubjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("expanding calendar: %w", err)
	}

	resp = &app.CalendarImportResponse{
		Source:    req.Source,
		Events:    len(events),
		Truncated: expanded.Truncated,
		Invalid:   expanded.Invalid,
	}
	for _, e := range skipped {
		resp.Skipped = append(resp.Skipped, e.Error())
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		entries := repository.NewSQLiteCalendarRepo(tx)
		for i := range expanded.Entries {
			e := &expanded.Entries[i]
			e.ID = uuid.New().String()
			e.CreatedAt = now
			e.UpdatedAt = now
			created, err := entries.UpsertExternal(ctx, e)
			if err != nil {
				return fmt.Errorf("storing %q on %s: %w", e.Title, e.Date, err)
			}
			if created {
				resp.Created++
			} else {
				resp.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["events"] = resp.Events
	fields["created"] = resp.Created
	fields["updated"] = resp.Updated
	return resp, nil
}
