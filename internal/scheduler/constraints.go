package scheduler

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// ErrInvalidConstraints marks a constraint model that cannot be planned
// against. It is the only fatal error of a planning run.
var ErrInvalidConstraints = errors.New("invalid scheduling constraints")

// Constraints is the explicit configuration of the criticality filter, the
// gap finder and the allocator.
type Constraints struct {
	DayStart domain.Clock
	DayEnd   domain.Clock

	MinGapMin int
	MaxGapMin int

	MaxBlocksPerDay               int
	MaxBlocksPerObligation        int
	MaxBlocksPerObligationPerPass int

	WeightThreshold float64
	Keywords        []string
}

// DefaultKeywords are the high-stakes terms that make an obligation critical
// regardless of its weight.
func DefaultKeywords() []string {
	return []string{
		"parcial", "examen", "final", "recuperatorio", "entrega",
		"trabajo práctico", "exam", "midterm", "quiz", "assignment", "project",
	}
}

// DefaultConstraints returns the documented defaults.
func DefaultConstraints() Constraints {
	return Constraints{
		DayStart:                      domain.MustClock("08:00"),
		DayEnd:                        domain.MustClock("22:00"),
		MinGapMin:                     90,
		MaxGapMin:                     120,
		MaxBlocksPerDay:               2,
		MaxBlocksPerObligation:        4,
		MaxBlocksPerObligationPerPass: 2,
		WeightThreshold:               5,
		Keywords:                      DefaultKeywords(),
	}
}

// Validate rejects constraint values that make the model inconsistent.
func (c Constraints) Validate() error {
	switch {
	case c.DayStart < 0 || c.DayEnd > domain.Clock(24*60):
		return fmt.Errorf("%w: business hours %s-%s out of range", ErrInvalidConstraints, c.DayStart, c.DayEnd)
	case c.DayStart >= c.DayEnd:
		return fmt.Errorf("%w: day start %s must be before day end %s", ErrInvalidConstraints, c.DayStart, c.DayEnd)
	case c.MinGapMin <= 0:
		return fmt.Errorf("%w: minimum gap must be positive, got %d", ErrInvalidConstraints, c.MinGapMin)
	case c.MinGapMin > c.MaxGapMin:
		return fmt.Errorf("%w: minimum gap %d exceeds maximum gap %d", ErrInvalidConstraints, c.MinGapMin, c.MaxGapMin)
	case c.MaxBlocksPerDay < 1:
		return fmt.Errorf("%w: max blocks per day must be at least 1, got %d", ErrInvalidConstraints, c.MaxBlocksPerDay)
	case c.MaxBlocksPerObligation < 1:
		return fmt.Errorf("%w: max blocks per obligation must be at least 1, got %d", ErrInvalidConstraints, c.MaxBlocksPerObligation)
	case c.MaxBlocksPerObligationPerPass < 1:
		return fmt.Errorf("%w: max blocks per obligation per pass must be at least 1, got %d", ErrInvalidConstraints, c.MaxBlocksPerObligationPerPass)
	case c.WeightThreshold < 0 || c.WeightThreshold > 100:
		return fmt.Errorf("%w: weight threshold %.1f outside 0-100", ErrInvalidConstraints, c.WeightThreshold)
	}
	return nil
}
