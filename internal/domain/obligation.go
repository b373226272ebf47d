package domain

import "time"

// Obligation is an exam, assignment or deadline the student must prepare for.
// It is treated as immutable for the duration of a planning run.
type Obligation struct {
	ID          string
	Title       string
	DueDate     string   // YYYY-MM-DD
	Weight      *float64 // grading weight 0-100, nil when unknown
	Description string
	SubjectID   string
	Color       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeightOrZero returns the weight, treating a missing weight as 0.
func (o Obligation) WeightOrZero() float64 {
	if o.Weight == nil {
		return 0
	}
	return *o.Weight
}

type Subject struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}
