package enrichment

import (
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Fallback builds the deterministic study block for an assignment. It only
// uses the obligation's own data, so it never fails.
func Fallback(a domain.Assignment) domain.StudyBlock {
	b := baseBlock(a)
	b.Title = "Study: " + a.Obligation.Title
	b.Description = fallbackDescription(a)
	b.Generated = false
	return b
}

func fallbackDescription(a domain.Assignment) string {
	return fmt.Sprintf("Study session for %q (due %s), %s-%s.",
		a.Obligation.Title, a.Obligation.DueDate, a.Gap.Start, a.Gap.End)
}

func baseBlock(a domain.Assignment) domain.StudyBlock {
	return domain.StudyBlock{
		AssignmentID: a.ID,
		ObligationID: a.Obligation.ID,
		Date:         a.Gap.Date,
		StartTime:    a.Gap.Start.String(),
		EndTime:      a.Gap.End.String(),
		SubjectID:    a.Obligation.SubjectID,
		Color:        a.Obligation.Color,
	}
}
