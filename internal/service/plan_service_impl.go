package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/enrichment"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
)

type planService struct {
	obligations repository.ObligationRepo
	calendar    repository.CalendarRepo
	blocks      repository.StudyBlockRepo
	enricher    Enricher
	uow         db.UnitOfWork
	observer    UseCaseObserver
	now         func() time.Time
}

// NewPlanService wires a planning run. A nil enricher disables generation:
// every block uses the template text.
func NewPlanService(
	obligations repository.ObligationRepo,
	calendar repository.CalendarRepo,
	blocks repository.StudyBlockRepo,
	enricher Enricher,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	if enricher == nil {
		enricher = enrichment.NewGateway(nil)
	}
	return &planService{
		obligations: obligations,
		calendar:    calendar,
		blocks:      blocks,
		enricher:    enricher,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
		now:         time.Now,
	}
}

// Plan runs one planning pass over the horizon starting at req.From:
// criticality filter, gap discovery, allocation, enrichment, and (unless
// DryRun) replacement of the stored study blocks from req.From onward.
//
// Only invalid constraints or horizon and storage failures return an error;
// record-level problems are reported as warnings.
func (s *planService) Plan(ctx context.Context, req app.PlanRequest) (resp *app.PlanResponse, err error) {
	startedAt := s.now().UTC()
	fields := map[string]any{"dry_run": req.DryRun}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if req.HorizonDays < 1 {
		return nil, &app.PlanError{
			Code:    app.PlanErrInvalidHorizon,
			Message: fmt.Sprintf("horizon must be at least 1 day, got %d", req.HorizonDays),
		}
	}
	c := req.Constraints
	if verr := c.Validate(); verr != nil {
		return nil, &app.PlanError{Code: app.PlanErrInvalidConstraints, Message: verr.Error(), Err: verr}
	}

	from := req.From
	if from.IsZero() {
		from = s.now()
	}
	start := startOfDay(from)
	fromDate := domain.FormatDate(start)
	toDate := domain.FormatDate(start.AddDate(0, 0, req.HorizonDays))
	fields["from"] = fromDate
	fields["horizon_days"] = req.HorizonDays

	all, err := s.obligations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading obligations: %w", err)
	}
	entries, err := s.calendar.ListBetween(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("loading calendar: %w", err)
	}

	resp = &app.PlanResponse{
		GeneratedAt: startedAt,
		From:        fromDate,
		To:          toDate,
	}

	valid, warnings := scheduler.ValidateObligations(upcoming(all, fromDate))
	resp.Warnings = append(resp.Warnings, warnings...)
	critical := scheduler.SelectCritical(valid, c)
	resp.CriticalCount = len(critical)

	gaps, warnings := scheduler.FindGaps(start, req.HorizonDays, busyIntervals(entries), c)
	resp.Warnings = append(resp.Warnings, warnings...)
	resp.GapCount = len(gaps)

	pool := scheduler.NewGapPool(gaps)
	alloc := scheduler.Allocate(critical, pool, c)
	resp.UnusedGapCount = len(pool.Remaining())

	titles := make(map[string]string, len(critical))
	for _, o := range critical {
		titles[o.ID] = o.Title
	}
	for _, b := range alloc.Blockers {
		resp.Blockers = append(resp.Blockers, app.PlanBlocker{
			ObligationID:    b.ObligationID,
			ObligationTitle: titles[b.ObligationID],
			Code:            b.Code,
			Message:         b.Message,
		})
		resp.Warnings = append(resp.Warnings, domain.Warning{
			Code:     b.Code,
			RecordID: b.ObligationID,
			Message:  b.Message,
		})
	}

	enriched := s.enricher.Enrich(ctx, alloc.Assignments)
	resp.Blocks = enriched.Blocks
	resp.FallbackCount = enriched.FallbackCount
	resp.Warnings = append(resp.Warnings, enriched.Warnings...)

	fields["critical"] = resp.CriticalCount
	fields["gaps"] = resp.GapCount
	fields["blocks"] = len(resp.Blocks)
	fields["fallbacks"] = resp.FallbackCount
	fields["warnings"] = len(resp.Warnings)

	if req.DryRun {
		return resp, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteStudyBlockRepo(tx).ReplaceFrom(ctx, fromDate, resp.Blocks); err != nil {
			return fmt.Errorf("saving study blocks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Persisted = true
	return resp, nil
}

func (s *planService) ListBlocks(ctx context.Context, from string, days int) ([]domain.StudyBlock, error) {
	start, err := domain.ParseDate(from)
	if err != nil {
		return nil, validationErrorf("from: %v", err)
	}
	if days < 1 {
		return nil, validationErrorf("days must be at least 1, got %d", days)
	}
	return s.blocks.ListBetween(ctx, from, domain.FormatDate(start.AddDate(0, 0, days)))
}
