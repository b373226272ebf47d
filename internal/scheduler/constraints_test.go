package scheduler

import (
	"testing"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConstraints_Valid(t *testing.T) {
	c := DefaultConstraints()
	assert.NoError(t, c.Validate())
	assert.Equal(t, "08:00", c.DayStart.String())
	assert.Equal(t, "22:00", c.DayEnd.String())
	assert.Equal(t, 90, c.MinGapMin)
	assert.Equal(t, 120, c.MaxGapMin)
	assert.Equal(t, 2, c.MaxBlocksPerDay)
	assert.Equal(t, 4, c.MaxBlocksPerObligation)
	assert.Equal(t, 2, c.MaxBlocksPerObligationPerPass)
	assert.Equal(t, 5.0, c.WeightThreshold)
}

func TestConstraints_Validate_Rejects(t *testing.T) {
	cases := map[string]func(*Constraints){
		"min above max":       func(c *Constraints) { c.MinGapMin = 150 },
		"zero min gap":        func(c *Constraints) { c.MinGapMin = 0 },
		"inverted hours":      func(c *Constraints) { c.DayStart, c.DayEnd = c.DayEnd, c.DayStart },
		"hours past midnight": func(c *Constraints) { c.DayEnd = domain.Clock(25 * 60) },
		"zero per day":        func(c *Constraints) { c.MaxBlocksPerDay = 0 },
		"zero per obligation": func(c *Constraints) { c.MaxBlocksPerObligation = 0 },
		"zero per pass":       func(c *Constraints) { c.MaxBlocksPerObligationPerPass = 0 },
		"negative threshold":  func(c *Constraints) { c.WeightThreshold = -1 },
		"threshold above 100": func(c *Constraints) { c.WeightThreshold = 101 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConstraints()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConstraints)
		})
	}
}
