package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

func busy(date, start, end string) domain.BusyInterval {
	return domain.BusyInterval{ID: date + "@" + start, Date: date, Start: start, End: end}
}

func gapStrings(gaps []domain.Gap) []string {
	out := make([]string, len(gaps))
	for i, g := range gaps {
		out[i] = g.String()
	}
	return out
}

func TestFindGaps_SingleInterval(t *testing.T) {
	gaps, warnings := FindGaps(testStart, 1, []domain.BusyInterval{
		busy("2026-02-10", "10:00", "11:30"),
	}, DefaultConstraints())

	assert.Empty(t, warnings)
	// The space before the interval is exactly the maximum; the long evening
	// window is truncated to one block, not split.
	assert.Equal(t, []string{
		"2026-02-10 08:00-10:00",
		"2026-02-10 11:30-13:30",
	}, gapStrings(gaps))
}

func TestFindGaps_EmptyDayYieldsOneGap(t *testing.T) {
	gaps, _ := FindGaps(testStart, 3, nil, DefaultConstraints())

	assert.Equal(t, []string{
		"2026-02-10 08:00-10:00",
		"2026-02-11 08:00-10:00",
		"2026-02-12 08:00-10:00",
	}, gapStrings(gaps))
}

func TestFindGaps_ShortWindowsIgnored(t *testing.T) {
	gaps, _ := FindGaps(testStart, 1, []domain.BusyInterval{
		busy("2026-02-10", "09:00", "12:00"), // 60 min before: too short
		busy("2026-02-10", "13:00", "20:45"), // 60 min between: too short
	}, DefaultConstraints())

	// 20:45-22:00 is 75 min: too short as well.
	assert.Empty(t, gaps)
}

func TestFindGaps_UnsortedAndOverlappingIntervals(t *testing.T) {
	gaps, _ := FindGaps(testStart, 1, []domain.BusyInterval{
		busy("2026-02-10", "14:00", "15:00"),
		busy("2026-02-10", "08:30", "12:00"),
		busy("2026-02-10", "09:00", "10:00"), // inside the previous one
	}, DefaultConstraints())

	// Cursor stays at 12:00 after the nested interval; 12:00-14:00 qualifies.
	assert.Equal(t, []string{
		"2026-02-10 12:00-14:00",
		"2026-02-10 15:00-17:00",
	}, gapStrings(gaps))
}

func TestFindGaps_AllDayEntriesDoNotBlock(t *testing.T) {
	gaps, warnings := FindGaps(testStart, 1, []domain.BusyInterval{
		{ID: "holiday", Date: "2026-02-10"},
	}, DefaultConstraints())

	assert.Empty(t, warnings)
	assert.Equal(t, []string{"2026-02-10 08:00-10:00"}, gapStrings(gaps))
}

func TestFindGaps_IntervalsOutsideBusinessHours(t *testing.T) {
	gaps, _ := FindGaps(testStart, 1, []domain.BusyInterval{
		busy("2026-02-10", "06:00", "07:00"),
		busy("2026-02-10", "21:00", "23:30"),
	}, DefaultConstraints())

	assert.Equal(t, []string{"2026-02-10 08:00-10:00"}, gapStrings(gaps))
}

func TestFindGaps_IntervalStartingAfterCloseDoesNotExtendDay(t *testing.T) {
	c := DefaultConstraints()
	gaps, warnings := FindGaps(testStart, 2, []domain.BusyInterval{
		busy("2026-02-10", "08:00", "20:30"),
		busy("2026-02-10", "23:00", "23:30"),
		busy("2026-02-11", "08:00", "20:00"),
		busy("2026-02-11", "22:00", "23:30"),
	}, c)

	assert.Empty(t, warnings)
	assert.Equal(t, []string{
		"2026-02-10 20:30-22:00",
		"2026-02-11 20:00-22:00",
	}, gapStrings(gaps))
	for _, g := range gaps {
		assert.GreaterOrEqual(t, g.Start, c.DayStart, g.String())
		assert.LessOrEqual(t, g.End, c.DayEnd, g.String())
	}
}

func TestFindGaps_MalformedIntervalsWarn(t *testing.T) {
	gaps, warnings := FindGaps(testStart, 1, []domain.BusyInterval{
		{ID: "bad-date", Date: "10-02-2026", Start: "08:00", End: "22:00"},
		{ID: "bad-time", Date: "2026-02-10", Start: "8am", End: "22:00"},
		{ID: "inverted", Date: "2026-02-10", Start: "12:00", End: "09:00"},
	}, DefaultConstraints())

	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Equal(t, domain.WarnInvalidInterval, w.Code)
	}
	assert.Equal(t, "bad-date", warnings[0].RecordID)
	// None of the malformed intervals block the day.
	assert.Equal(t, []string{"2026-02-10 08:00-10:00"}, gapStrings(gaps))
}

func TestFindGaps_IgnoresDaysOutsideHorizon(t *testing.T) {
	gaps, _ := FindGaps(testStart, 1, []domain.BusyInterval{
		busy("2026-02-11", "08:00", "22:00"),
	}, DefaultConstraints())

	assert.Equal(t, []string{"2026-02-10 08:00-10:00"}, gapStrings(gaps))
}

func TestFindGaps_DurationWithinBounds(t *testing.T) {
	c := DefaultConstraints()
	c.MinGapMin = 45
	c.MaxGapMin = 60

	gaps, _ := FindGaps(testStart, 2, []domain.BusyInterval{
		busy("2026-02-10", "08:50", "09:00"),
		busy("2026-02-10", "09:45", "10:00"),
		busy("2026-02-11", "12:00", "12:30"),
	}, c)

	require.NotEmpty(t, gaps)
	for _, g := range gaps {
		assert.GreaterOrEqual(t, g.Minutes(), c.MinGapMin, g.String())
		assert.LessOrEqual(t, g.Minutes(), c.MaxGapMin, g.String())
	}
	assert.Equal(t, []string{
		"2026-02-10 08:00-08:50",
		"2026-02-10 09:00-09:45",
		"2026-02-10 10:00-11:00",
		"2026-02-11 08:00-09:00",
		"2026-02-11 12:30-13:30",
	}, gapStrings(gaps))
}
