package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/enrichment"
	"github.com/alexanderramin/studyplan/internal/matcher"
	"github.com/alexanderramin/studyplan/internal/repository"
)

type backfillService struct {
	subjects  repository.SubjectRepo
	calendar  repository.CalendarRepo
	extractor CandidateExtractor
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

// NewBackfillService wires the metadata reconciliation pass. extractor may
// be nil when candidates are always supplied by the caller.
func NewBackfillService(
	subjects repository.SubjectRepo,
	calendar repository.CalendarRepo,
	extractor CandidateExtractor,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) BackfillService {
	return &backfillService{
		subjects:  subjects,
		calendar:  calendar,
		extractor: extractor,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Backfill fills missing weights and descriptions on the subject's calendar
// entries from matching candidates. All writes of a pass commit together.
func (s *backfillService) Backfill(ctx context.Context, req app.BackfillRequest) (resp *app.BackfillResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subject": req.SubjectID, "dry_run": req.DryRun}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "backfill",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if strings.TrimSpace(req.SubjectID) == "" {
		return nil, validationErrorf("subject is required")
	}
	if _, err := s.subjects.GetByID(ctx, req.SubjectID); err != nil {
		return nil, fmt.Errorf("loading subject: %w", err)
	}

	candidates, err := s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["candidates"] = len(candidates)

	entries, err := s.calendar.ListIncomplete(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("loading incomplete entries: %w", err)
	}

	result := matcher.Reconcile(entries, candidates)
	byID := make(map[string]domain.CalendarEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	resp = &app.BackfillResponse{
		SubjectID:      req.SubjectID,
		CandidateCount: len(candidates),
		Examined:       len(entries),
		Unmatched:      result.Unmatched,
	}
	for _, u := range result.Updates {
		resp.Changes = append(resp.Changes, app.BackfillChange{
			EntryID:     u.EntryID,
			EntryTitle:  byID[u.EntryID].Title,
			Candidate:   u.Candidate.Title,
			Rule:        string(u.Rule),
			Weight:      u.Weight,
			Description: u.Description,
		})
	}
	fields["updates"] = len(resp.Changes)
	fields["unmatched"] = len(resp.Unmatched)

	if req.DryRun || len(result.Updates) == 0 {
		return resp, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCalendar := repository.NewSQLiteCalendarRepo(tx)
		for _, u := range result.Updates {
			merged := u.Apply(byID[u.EntryID])
			if err := txCalendar.UpdateMetadata(ctx, merged.ID, merged.Weight, merged.Description); err != nil {
				return fmt.Errorf("updating entry %q: %w", merged.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Applied = true
	return resp, nil
}

// candidates returns the caller's candidates for this subject, or asks the
// extractor when none were given.
func (s *backfillService) candidates(ctx context.Context, req app.BackfillRequest) ([]domain.MatchCandidate, error) {
	var out []domain.MatchCandidate
	for _, c := range req.Candidates {
		if c.SubjectID == "" || c.SubjectID == req.SubjectID {
			out = append(out, c)
		}
	}
	if len(req.Candidates) > 0 || strings.TrimSpace(req.Syllabus) == "" {
		return out, nil
	}
	if s.extractor == nil {
		return nil, enrichment.ErrGenerationDisabled
	}
	extracted, err := s.extractor.Extract(ctx, req.SubjectID, req.Syllabus)
	if err != nil {
		return nil, err
	}
	return extracted, nil
}
