package app

import "time"

type CalendarImportRequest struct {
	Source    string // file path or http(s)/webcal URL
	SubjectID string
	From      time.Time
	To        time.Time
	Location  *time.Location
}

type CalendarImportResponse struct {
	Source    string
	Events    int
	Created   int
	Updated   int
	Skipped   []string // parse errors for dropped components
	Truncated []string // UIDs whose recurrence hit the occurrence cap
	Invalid   []string // UIDs with an unparseable recurrence rule
}
