package app

import "github.com/alexanderramin/studyplan/internal/domain"

// BackfillRequest drives one reconciliation pass for a subject. Candidates
// are used as given; when empty, Syllabus is sent to the extractor.
type BackfillRequest struct {
	SubjectID  string
	Candidates []domain.MatchCandidate
	Syllabus   string
	DryRun     bool
}

// BackfillChange records the fields written to one calendar entry.
type BackfillChange struct {
	EntryID     string
	EntryTitle  string
	Candidate   string
	Rule        string
	Weight      *float64
	Description *string
}

type BackfillResponse struct {
	SubjectID      string
	CandidateCount int
	Examined       int
	Changes        []BackfillChange
	Unmatched      []string
	Applied        bool
}
