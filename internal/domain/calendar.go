package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinSubstantialDescription is the length (in characters) from which a
// stored description is considered manually written and worth protecting.
const MinSubstantialDescription = 10

// BusyInterval is an already-scheduled calendar block. Empty Start or End
// marks an all-day entry, which never blocks gap discovery.
type BusyInterval struct {
	ID    string
	Date  string // YYYY-MM-DD
	Start string // HH:MM
	End   string // HH:MM
}

// AllDay reports whether the interval lacks a start or end time.
func (b BusyInterval) AllDay() bool {
	return strings.TrimSpace(b.Start) == "" || strings.TrimSpace(b.End) == ""
}

// CalendarEntry is a stored calendar row: a class, manual event, or an exam
// or assignment placed on the calendar.
type CalendarEntry struct {
	ID          string
	SubjectID   string
	Title       string
	Kind        EntryKind
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM, empty for all-day entries
	EndTime     string // HH:MM, empty for all-day entries
	Weight      *float64
	Description string
	Source      EntrySource
	ExternalKey string // stable key for imported occurrences

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BusyInterval projects the entry onto the busy set used for gap discovery.
func (e CalendarEntry) BusyInterval() BusyInterval {
	return BusyInterval{ID: e.ID, Date: e.Date, Start: e.StartTime, End: e.EndTime}
}

// Incomplete reports whether the entry still lacks a weight or a description.
func (e CalendarEntry) Incomplete() bool {
	return e.Weight == nil || strings.TrimSpace(e.Description) == ""
}

// HasSubstantialDescription reports whether the stored description is long
// enough that short generated text must not replace it.
func (e CalendarEntry) HasSubstantialDescription() bool {
	return utf8.RuneCountInString(strings.TrimSpace(e.Description)) >= MinSubstantialDescription
}

// MatchCandidate is an AI-extracted (title, weight, description) triple
// proposed during a backfill pass. It has no lifecycle of its own.
type MatchCandidate struct {
	SubjectID   string   `json:"subject_id,omitempty" yaml:"subject_id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Weight      *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}
