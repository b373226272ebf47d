package app

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/scheduler"
)

const DefaultHorizonDays = 14

type PlanRequest struct {
	From        time.Time // first planned day; only the date part is used
	HorizonDays int
	Constraints scheduler.Constraints
	DryRun      bool
}

func NewPlanRequest(from time.Time) PlanRequest {
	return PlanRequest{
		From:        from,
		HorizonDays: DefaultHorizonDays,
		Constraints: scheduler.DefaultConstraints(),
	}
}

// PlanBlocker names an obligation that received no study time in a run.
type PlanBlocker struct {
	ObligationID    string
	ObligationTitle string
	Code            domain.WarningCode
	Message         string
}

type PlanResponse struct {
	GeneratedAt time.Time
	From        string
	To          string // exclusive
	Blocks      []domain.StudyBlock
	Warnings    []domain.Warning
	Blockers    []PlanBlocker

	CriticalCount  int
	GapCount       int
	FallbackCount  int
	Persisted      bool
	UnusedGapCount int
}

type PlanErrorCode string

const (
	PlanErrInvalidConstraints PlanErrorCode = "INVALID_CONSTRAINTS"
	PlanErrInvalidHorizon     PlanErrorCode = "INVALID_HORIZON"
)

type PlanError struct {
	Code    PlanErrorCode
	Message string
	Err     error
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *PlanError) Unwrap() error {
	return e.Err
}
