package domain

import (
	"fmt"
	"time"
)

// Gap is a contiguous free window within a single day.
type Gap struct {
	Date  string // YYYY-MM-DD
	Start Clock
	End   Clock
}

// Minutes returns the gap duration.
func (g Gap) Minutes() int {
	return int(g.End - g.Start)
}

func (g Gap) String() string {
	return fmt.Sprintf("%s %s-%s", g.Date, g.Start, g.End)
}

// Assignment pairs one Obligation with one Gap. ID is a synthetic sequential
// number used to correlate enrichment output with the allocation.
type Assignment struct {
	ID         int
	Obligation Obligation
	Gap        Gap
}

// StudyBlock is a presentation-ready study session.
type StudyBlock struct {
	ID           string
	AssignmentID int
	ObligationID string
	Date         string
	StartTime    string
	EndTime      string
	Title        string
	Description  string
	SubjectID    string
	Color        string
	Generated    bool // false when produced by the deterministic fallback

	CreatedAt time.Time
}

// Warning reports a record-level problem that did not abort the run.
type Warning struct {
	Code     WarningCode `json:"code"`
	RecordID string      `json:"record_id,omitempty"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	if w.RecordID == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", w.Code, w.RecordID, w.Message)
}
