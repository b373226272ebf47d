package contract

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/app"
)

type PlanRequest = app.PlanRequest

func NewPlanRequest(from time.Time) PlanRequest {
	return app.NewPlanRequest(from)
}

type PlanResponse = app.PlanResponse

type PlanBlocker = app.PlanBlocker

type PlanErrorCode = app.PlanErrorCode

const (
	PlanErrInvalidConstraints PlanErrorCode = app.PlanErrInvalidConstraints
	PlanErrInvalidHorizon     PlanErrorCode = app.PlanErrInvalidHorizon
)

type PlanError = app.PlanError
