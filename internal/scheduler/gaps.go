package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type busySpan struct {
	start, end domain.Clock
}

// FindGaps walks each day of the horizon and returns the free windows
// between busy intervals, within business hours. A window shorter than
// MinGapMin is ignored; a longer one is truncated to MaxGapMin, never split.
//
// Gaps are ordered by date, then by discovery order within the day.
// Malformed intervals are skipped and reported as warnings; all-day
// intervals never block.
func FindGaps(start time.Time, horizonDays int, intervals []domain.BusyInterval, c Constraints) ([]domain.Gap, []domain.Warning) {
	byDate, warnings := groupBusyByDate(intervals)

	var gaps []domain.Gap
	for d := 0; d < horizonDays; d++ {
		date := domain.FormatDate(start.AddDate(0, 0, d))
		gaps = append(gaps, dayGaps(date, byDate[date], c)...)
	}
	return gaps, warnings
}

func dayGaps(date string, busy []busySpan, c Constraints) []domain.Gap {
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].start < busy[j].start
	})

	var gaps []domain.Gap
	cursor := c.DayStart
	emit := func(until domain.Clock) {
		distance := int(until - cursor)
		if distance < c.MinGapMin {
			return
		}
		gaps = append(gaps, domain.Gap{
			Date:  date,
			Start: cursor,
			End:   cursor.Add(min(distance, c.MaxGapMin)),
		})
	}

	for _, b := range busy {
		emit(min(b.start, c.DayEnd))
		if b.end > cursor {
			cursor = b.end
		}
	}
	emit(c.DayEnd)
	return gaps
}

func groupBusyByDate(intervals []domain.BusyInterval) (map[string][]busySpan, []domain.Warning) {
	byDate := make(map[string][]busySpan)
	var warnings []domain.Warning
	for _, iv := range intervals {
		day, err := domain.ParseDate(iv.Date)
		if err != nil {
			warnings = append(warnings, invalidInterval(iv, err))
			continue
		}
		if iv.AllDay() {
			continue
		}
		start, err := domain.ParseClock(iv.Start)
		if err != nil {
			warnings = append(warnings, invalidInterval(iv, err))
			continue
		}
		end, err := domain.ParseClock(iv.End)
		if err != nil {
			warnings = append(warnings, invalidInterval(iv, err))
			continue
		}
		if end < start {
			warnings = append(warnings, invalidInterval(iv, fmt.Errorf("end %s before start %s", end, start)))
			continue
		}
		key := domain.FormatDate(day)
		byDate[key] = append(byDate[key], busySpan{start: start, end: end})
	}
	return byDate, warnings
}

func invalidInterval(iv domain.BusyInterval, err error) domain.Warning {
	return domain.Warning{
		Code:     domain.WarnInvalidInterval,
		RecordID: iv.ID,
		Message:  fmt.Sprintf("busy interval on %q skipped: %v", iv.Date, err),
	}
}
