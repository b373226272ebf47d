// Package matcher reconciles AI-extracted obligation mentions with stored
// calendar entries and proposes metadata backfills.
//
// Matching is first-candidate-wins: for each stored entry the candidates are
// tried in list order and the first one satisfying any rule is taken, even
// if a later candidate would be a closer match.
package matcher

import (
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/textnorm"
)

// Rule identifies which matching rule paired an entry with a candidate.
type Rule string

const (
	RuleSubstring  Rule = "substring"
	RuleSharedWord Rule = "shared_word"
	RulePrefix     Rule = "prefix"
)

const (
	significantWordLen = 3 // words must be longer than this
	prefixLen          = 3
)

// MatchTitles applies the rules in order and reports the first that holds.
func MatchTitles(stored, candidate string) (Rule, bool) {
	if textnorm.ContainsFold(stored, candidate) || textnorm.ContainsFold(candidate, stored) {
		return RuleSubstring, true
	}

	storedWords := textnorm.SignificantWords(stored, significantWordLen)
	for w := range textnorm.SignificantWords(candidate, significantWordLen) {
		if _, ok := storedWords[w]; ok {
			return RuleSharedWord, true
		}
	}

	if p := textnorm.Prefix(stored, prefixLen); p != "" && p == textnorm.Prefix(candidate, prefixLen) {
		return RulePrefix, true
	}
	return "", false
}

// FindMatch returns the index of the first candidate matching the stored
// title, or -1.
func FindMatch(storedTitle string, candidates []domain.MatchCandidate) (int, Rule) {
	for i, c := range candidates {
		if rule, ok := MatchTitles(storedTitle, c.Title); ok {
			return i, rule
		}
	}
	return -1, ""
}

// Update is a proposed change to one stored entry. Nil fields are left
// untouched.
type Update struct {
	EntryID     string
	Candidate   domain.MatchCandidate
	Rule        Rule
	Weight      *float64
	Description *string
}

// Changed reports whether the update modifies anything.
func (u Update) Changed() bool {
	return u.Weight != nil || u.Description != nil
}

// Apply returns a copy of entry with the update merged in.
func (u Update) Apply(entry domain.CalendarEntry) domain.CalendarEntry {
	if u.Weight != nil {
		w := *u.Weight
		entry.Weight = &w
	}
	if u.Description != nil {
		entry.Description = *u.Description
	}
	return entry
}

// ProposeUpdate merges a matched candidate into a stored entry.
//
// The weight is taken only when the candidate supplies a non-zero value. The
// description is taken only when the candidate supplies one and the stored
// description is empty or shorter than domain.MinSubstantialDescription.
func ProposeUpdate(entry domain.CalendarEntry, c domain.MatchCandidate) Update {
	u := Update{EntryID: entry.ID, Candidate: c}

	if c.Weight != nil && *c.Weight != 0 {
		w := *c.Weight
		u.Weight = &w
	}

	desc := strings.TrimSpace(c.Description)
	if desc != "" && !entry.HasSubstantialDescription() {
		u.Description = &desc
	}
	return u
}

// Result is the outcome of a reconciliation pass.
type Result struct {
	Updates   []Update
	Unmatched []string // IDs of incomplete entries no candidate matched
}

// Reconcile visits every incomplete entry, in order, and pairs it with the
// first matching candidate. Complete entries are skipped; matches that would
// change nothing are dropped.
func Reconcile(entries []domain.CalendarEntry, candidates []domain.MatchCandidate) Result {
	var result Result
	for _, e := range entries {
		if !e.Incomplete() {
			continue
		}
		idx, rule := FindMatch(e.Title, candidates)
		if idx < 0 {
			result.Unmatched = append(result.Unmatched, e.ID)
			continue
		}
		u := ProposeUpdate(e, candidates[idx])
		u.Rule = rule
		if u.Changed() {
			result.Updates = append(result.Updates, u)
		}
	}
	return result
}
