package domain

type EntryKind string

const (
	EntryClass      EntryKind = "class"
	EntryEvent      EntryKind = "event"
	EntryExam       EntryKind = "exam"
	EntryAssignment EntryKind = "assignment"
)

// ValidEntryKinds is the canonical set of accepted calendar entry kinds.
var ValidEntryKinds = map[string]bool{
	"class": true, "event": true, "exam": true, "assignment": true,
}

type EntrySource string

const (
	SourceManual EntrySource = "manual"
	SourceICS    EntrySource = "ics"
)

type WarningCode string

const (
	WarnInvalidDueDate       WarningCode = "invalid_due_date"
	WarnInvalidWeight        WarningCode = "invalid_weight"
	WarnInvalidInterval      WarningCode = "invalid_interval"
	WarnNoGapBeforeDue       WarningCode = "no_gap_before_due"
	WarnObligationCapReached WarningCode = "obligation_cap_reached"
	WarnEnrichmentFallback   WarningCode = "enrichment_fallback"
)
