package scheduler

import (
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// GapPool is the caller-owned set of free windows consumed by Allocate.
// Gaps keep their discovery order; a claimed gap is never handed out again.
type GapPool struct {
	gaps    []domain.Gap
	claimed []bool
}

// NewGapPool wraps gaps, which must already be in date-then-start order.
func NewGapPool(gaps []domain.Gap) *GapPool {
	return &GapPool{gaps: gaps, claimed: make([]bool, len(gaps))}
}

// Len returns the total number of gaps, claimed or not.
func (p *GapPool) Len() int {
	return len(p.gaps)
}

// Claimed reports whether the gap at index i has been consumed.
func (p *GapPool) Claimed(i int) bool {
	return p.claimed[i]
}

// Remaining returns the unclaimed gaps in pool order.
func (p *GapPool) Remaining() []domain.Gap {
	var out []domain.Gap
	for i, g := range p.gaps {
		if !p.claimed[i] {
			out = append(out, g)
		}
	}
	return out
}

// validFor returns the indexes of unclaimed gaps dated on or before due.
func (p *GapPool) validFor(due string) []int {
	var idx []int
	for i, g := range p.gaps {
		if !p.claimed[i] && g.Date <= due {
			idx = append(idx, i)
		}
	}
	return idx
}

func (p *GapPool) claim(i int) domain.Gap {
	p.claimed[i] = true
	return p.gaps[i]
}

// Blocker explains why an obligation received no study time in its step.
type Blocker struct {
	ObligationID string
	Code         domain.WarningCode
	Message      string
}

// Allocation is the outcome of one allocation run.
type Allocation struct {
	Assignments []domain.Assignment
	Blockers    []Blocker
}

// Allocate greedily assigns critical obligations, in priority order, to the
// earliest free windows on or before their due dates.
//
// Obligations earlier in the order get first access to earlier gaps. Each
// obligation may take at most MaxBlocksPerObligationPerPass gaps in its step
// and MaxBlocksPerObligation over the whole run; each date holds at most
// MaxBlocksPerDay assignments. There is no backtracking.
func Allocate(critical []domain.Obligation, pool *GapPool, c Constraints) Allocation {
	var result Allocation
	perDay := make(map[string]int)
	perObligation := make(map[string]int)
	nextID := 1

	for _, o := range critical {
		if perObligation[o.ID] >= c.MaxBlocksPerObligation {
			result.Blockers = append(result.Blockers, Blocker{
				ObligationID: o.ID,
				Code:         domain.WarnObligationCapReached,
				Message:      fmt.Sprintf("%q already has %d study blocks", o.Title, perObligation[o.ID]),
			})
			continue
		}

		created := 0
		for _, i := range pool.validFor(o.DueDate) {
			if created >= c.MaxBlocksPerObligationPerPass || perObligation[o.ID] >= c.MaxBlocksPerObligation {
				break
			}
			gap := pool.gaps[i]
			if perDay[gap.Date] >= c.MaxBlocksPerDay {
				continue
			}

			result.Assignments = append(result.Assignments, domain.Assignment{
				ID:         nextID,
				Obligation: o,
				Gap:        pool.claim(i),
			})
			nextID++
			perDay[gap.Date]++
			perObligation[o.ID]++
			created++
		}

		if created == 0 {
			result.Blockers = append(result.Blockers, Blocker{
				ObligationID: o.ID,
				Code:         domain.WarnNoGapBeforeDue,
				Message:      fmt.Sprintf("no free window on or before %s for %q", o.DueDate, o.Title),
			})
		}
	}

	return result
}
