package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// ErrValidation marks a record rejected before it reached storage.
var ErrValidation = errors.New("validation failed")

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// upcoming keeps obligations due on or after from. Obligations with an
// unreadable due date are kept so validation can report them.
func upcoming(obs []domain.Obligation, from string) []domain.Obligation {
	out := make([]domain.Obligation, 0, len(obs))
	for _, o := range obs {
		if _, err := domain.ParseDate(o.DueDate); err != nil || o.DueDate >= from {
			out = append(out, o)
		}
	}
	return out
}

func busyIntervals(entries []domain.CalendarEntry) []domain.BusyInterval {
	out := make([]domain.BusyInterval, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.BusyInterval())
	}
	return out
}

func validateWeight(w *float64) error {
	if w != nil && (*w < 0 || *w > 100) {
		return validationErrorf("weight %.1f outside 0-100", *w)
	}
	return nil
}

func validateTimes(start, end string) error {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return validationErrorf("both start and end times are required for a timed entry")
	}
	s, err := domain.ParseClock(start)
	if err != nil {
		return validationErrorf("start time: %v", err)
	}
	e, err := domain.ParseClock(end)
	if err != nil {
		return validationErrorf("end time: %v", err)
	}
	if s >= e {
		return validationErrorf("start %s must be before end %s", start, end)
	}
	return nil
}
