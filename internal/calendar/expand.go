package calendar

import (
	"errors"
	"sort"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/textnorm"
	"github.com/teambition/rrule-go"
)

const defaultMaxOccurrences = 1000

// ErrInvalidWindow is returned when the import window ends before it starts.
var ErrInvalidWindow = errors.New("import window ends before it starts")

// ExpandOptions bounds recurrence expansion.
type ExpandOptions struct {
	From     time.Time
	To       time.Time
	Location *time.Location // display timezone, time.Local when nil

	SubjectID      string // assigned to every produced entry
	MaxOccurrences int    // per event; defaultMaxOccurrences when zero
}

// ExpandResult holds the produced entries and the UIDs whose series hit the
// occurrence cap.
type ExpandResult struct {
	Entries   []domain.CalendarEntry
	Truncated []string
	Invalid   []string // UIDs with an unparseable RRULE
}

var examWords = []string{"parcial", "examen", "final", "recuperatorio", "exam", "midterm", "quiz"}
var assignmentWords = []string{"entrega", "trabajo práctico", "assignment", "project", "deadline"}

// Expand turns parsed events into calendar entries for every occurrence that
// overlaps [From, To). Entries are ordered by date, start time and title.
func Expand(events []Event, opts ExpandOptions) (ExpandResult, error) {
	var res ExpandResult
	if opts.To.Before(opts.From) {
		return res, ErrInvalidWindow
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = defaultMaxOccurrences
	}

	var uids []string
	base := make(map[string][]Event)
	overrides := make(map[string][]Event)
	for _, ev := range events {
		if ev.IsOverride() {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
			continue
		}
		if _, seen := base[ev.UID]; !seen {
			uids = append(uids, ev.UID)
		}
		base[ev.UID] = append(base[ev.UID], ev)
	}

	for _, uid := range uids {
		for _, ev := range base[uid] {
			if ev.RRule == "" {
				if ev.overlaps(ev.Start, ev.End, opts) {
					start, end, src := applyOverride(ev, overrides[uid], ev.Start, ev.End)
					res.Entries = append(res.Entries, toEntry(src, ev.Start, start, end, false, opts))
				}
				continue
			}

			starts, err := occurrences(ev, opts)
			if err != nil {
				res.Invalid = append(res.Invalid, uid)
				continue
			}
			if len(starts) > opts.MaxOccurrences {
				starts = starts[:opts.MaxOccurrences]
				res.Truncated = append(res.Truncated, uid)
			}
			dur := ev.End.Sub(ev.Start)
			for _, s := range starts {
				start, end, src := applyOverride(ev, overrides[uid], s, s.Add(dur))
				res.Entries = append(res.Entries, toEntry(src, s, start, end, true, opts))
			}
		}
	}

	// Canonical order: date ASC, start ASC, title ASC.
	sort.SliceStable(res.Entries, func(i, j int) bool {
		a, b := res.Entries[i], res.Entries[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Title < b.Title
	})
	return res, nil
}

func (ev Event) overlaps(start, end time.Time, opts ExpandOptions) bool {
	if !end.After(start) {
		end = start.Add(time.Nanosecond)
	}
	return start.Before(opts.To) && end.After(opts.From)
}

func occurrences(ev Event, opts ExpandOptions) ([]time.Time, error) {
	opt, err := rrule.StrToROption(ev.RRule)
	if err != nil {
		return nil, err
	}
	opt.Dtstart = ev.Start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, err
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	// Widen by the event duration so series instances that started before
	// From but still run inside the window are kept.
	from := opts.From.In(loc).Add(-ev.End.Sub(ev.Start))
	to := opts.To.In(loc)

	var out []time.Time
	for _, s := range set.Between(from, to, true) {
		if s.Equal(to) {
			continue
		}
		if ev.overlaps(s, s.Add(ev.End.Sub(ev.Start)), opts) {
			out = append(out, s)
		}
	}
	return out, nil
}

// applyOverride swaps in the RECURRENCE-ID override for the instance that
// starts at start, if there is one.
func applyOverride(ev Event, overrides []Event, start, end time.Time) (time.Time, time.Time, Event) {
	for _, o := range overrides {
		if o.Recurrence.Equal(start) {
			return o.Start, o.End, o
		}
	}
	return start, end, ev
}

// toEntry renders one occurrence. instance is the series start of the
// occurrence before any override and keys the entry for idempotent imports.
func toEntry(ev Event, instance, start, end time.Time, recurring bool, opts ExpandOptions) domain.CalendarEntry {
	startLocal := start.In(opts.Location)
	entry := domain.CalendarEntry{
		SubjectID:   opts.SubjectID,
		Title:       ev.Summary,
		Kind:        classify(ev.Summary, recurring),
		Date:        domain.FormatDate(startLocal),
		Description: ev.Description,
		Source:      domain.SourceICS,
		ExternalKey: ev.UID + "@" + instance.In(opts.Location).Format(time.RFC3339),
	}
	if ev.AllDay {
		// Date-only values carry no zone; keep the calendar date as written.
		entry.Date = start.Format(domain.DateLayout)
		entry.ExternalKey = ev.UID + "@" + instance.Format(domain.DateLayout)
		return entry
	}

	endLocal := end.In(opts.Location)
	entry.StartTime = startLocal.Format("15:04")
	entry.EndTime = endLocal.Format("15:04")
	if domain.FormatDate(endLocal) != entry.Date {
		entry.EndTime = "24:00"
	}
	return entry
}

func classify(summary string, recurring bool) domain.EntryKind {
	for _, w := range examWords {
		if textnorm.ContainsFold(summary, w) {
			return domain.EntryExam
		}
	}
	for _, w := range assignmentWords {
		if textnorm.ContainsFold(summary, w) {
			return domain.EntryAssignment
		}
	}
	if recurring {
		return domain.EntryClass
	}
	return domain.EntryEvent
}
