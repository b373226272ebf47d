package contract

import "github.com/alexanderramin/studyplan/internal/app"

type BackfillRequest = app.BackfillRequest

type BackfillChange = app.BackfillChange

type BackfillResponse = app.BackfillResponse

type CalendarImportRequest = app.CalendarImportRequest

type CalendarImportResponse = app.CalendarImportResponse
