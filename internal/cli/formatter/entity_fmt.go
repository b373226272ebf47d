package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// FormatObligations renders obligations with their subject names.
func FormatObligations(obs []domain.Obligation, subjectNames map[string]string, today time.Time) string {
	if len(obs) == 0 {
		return Dim("No obligations.") + "\n"
	}
	headers := []string{"ID", "DUE", "TITLE", "WEIGHT", "SUBJECT"}
	rows := make([][]string, 0, len(obs))
	for _, o := range obs {
		subject := Dim("--")
		if name, ok := subjectNames[o.SubjectID]; ok {
			subject = StylePurple.Render(name)
		}
		rows = append(rows, []string{
			TruncID(o.ID),
			DueStyled(o.DueDate, today),
			Bold(Truncate(o.Title, 40)),
			WeightLabel(o.Weight),
			subject,
		})
	}
	return RenderTable(headers, rows)
}

// FormatSubjects renders the subject list.
func FormatSubjects(subjects []*domain.Subject) string {
	if len(subjects) == 0 {
		return Dim("No subjects.") + "\n"
	}
	headers := []string{"ID", "NAME", "COLOR"}
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, []string{TruncID(s.ID), Bold(s.Name), domain.CoalesceStr(s.Color, Dim("--"))})
	}
	return RenderTable(headers, rows)
}

// FormatCalendar renders calendar entries in stored order.
func FormatCalendar(entries []domain.CalendarEntry) string {
	if len(entries) == 0 {
		return Dim("No calendar entries.") + "\n"
	}
	headers := []string{"ID", "DATE", "TIME", "KIND", "TITLE", "WEIGHT", "SOURCE"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			TruncID(e.ID),
			e.Date,
			TimeRange(e.StartTime, e.EndTime),
			KindBadge(e.Kind),
			Truncate(e.Title, 40),
			WeightLabel(e.Weight),
			Dim(string(e.Source)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatBackfill renders the changes proposed or applied by a backfill pass.
func FormatBackfill(resp *app.BackfillResponse) string {
	var b strings.Builder
	verb := "Applied"
	if !resp.Applied {
		verb = "Proposed"
	}
	fmt.Fprintf(&b, "%s %d of %d incomplete entries from %d candidates.\n",
		verb, len(resp.Changes), resp.Examined, resp.CandidateCount)

	if len(resp.Changes) > 0 {
		b.WriteString("\n")
		headers := []string{"ENTRY", "MATCHED", "RULE", "WEIGHT", "DESCRIPTION"}
		rows := make([][]string, 0, len(resp.Changes))
		for _, c := range resp.Changes {
			desc := Dim("unchanged")
			if c.Description != nil {
				desc = Truncate(*c.Description, 40)
			}
			weight := Dim("unchanged")
			if c.Weight != nil {
				weight = WeightLabel(c.Weight)
			}
			rows = append(rows, []string{Bold(Truncate(c.EntryTitle, 32)), Truncate(c.Candidate, 32), Dim(c.Rule), weight, desc})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	if len(resp.Unmatched) > 0 {
		fmt.Fprintf(&b, "\n%s\n", StyleYellow.Render(fmt.Sprintf("%d entries had no matching candidate.", len(resp.Unmatched))))
	}
	return b.String()
}

// FormatImport summarises a calendar import.
func FormatImport(resp *app.CalendarImportResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %s: %s created, %s updated from %d events.\n",
		Bold(resp.Source),
		StyleGreen.Render(fmt.Sprint(resp.Created)),
		StyleBlue.Render(fmt.Sprint(resp.Updated)),
		resp.Events,
	)
	for _, s := range resp.Skipped {
		fmt.Fprintf(&b, "  %s skipped: %s\n", StyleYellow.Render("!"), s)
	}
	for _, uid := range resp.Truncated {
		fmt.Fprintf(&b, "  %s recurrence truncated: %s\n", StyleYellow.Render("!"), uid)
	}
	for _, uid := range resp.Invalid {
		fmt.Fprintf(&b, "  %s invalid recurrence rule: %s\n", StyleRed.Render("!"), uid)
	}
	return b.String()
}
