package scheduler

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/textnorm"
)

// ValidateObligations drops records that cannot be planned and reports each
// one as a warning. Input order is preserved.
func ValidateObligations(obs []domain.Obligation) ([]domain.Obligation, []domain.Warning) {
	valid := make([]domain.Obligation, 0, len(obs))
	var warnings []domain.Warning
	for _, o := range obs {
		due, err := domain.ParseDate(o.DueDate)
		if err != nil {
			warnings = append(warnings, domain.Warning{
				Code:     domain.WarnInvalidDueDate,
				RecordID: o.ID,
				Message:  fmt.Sprintf("%q skipped: %v", o.Title, err),
			})
			continue
		}
		if o.Weight != nil && (*o.Weight < 0 || *o.Weight > 100) {
			warnings = append(warnings, domain.Warning{
				Code:     domain.WarnInvalidWeight,
				RecordID: o.ID,
				Message:  fmt.Sprintf("%q skipped: weight %.1f outside 0-100", o.Title, *o.Weight),
			})
			continue
		}
		// Ordering and gap eligibility compare the canonical string.
		o.DueDate = domain.FormatDate(due)
		valid = append(valid, o)
	}
	return valid, warnings
}

// IsCritical reports whether an obligation warrants dedicated study time:
// its weight reaches the threshold, or its title or description mentions
// one of the configured keywords.
func IsCritical(o domain.Obligation, c Constraints) bool {
	if o.Weight != nil && *o.Weight >= c.WeightThreshold {
		return true
	}
	for _, kw := range c.Keywords {
		if textnorm.ContainsFold(o.Title, kw) || textnorm.ContainsFold(o.Description, kw) {
			return true
		}
	}
	return false
}

// SelectCritical filters obligations down to the critical subset and orders
// it by the canonical rules:
// 1. Due date: earliest first
// 2. Weight: higher first (missing weight counts as 0)
// Ties keep their input order. The input slice is not modified.
func SelectCritical(obs []domain.Obligation, c Constraints) []domain.Obligation {
	out := make([]domain.Obligation, 0, len(obs))
	for _, o := range obs {
		if IsCritical(o, c) {
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		// 1. Due date (ISO strings compare chronologically)
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}

		// 2. Weight (higher first)
		return a.WeightOrZero() > b.WeightOrZero()
	})
	return out
}
