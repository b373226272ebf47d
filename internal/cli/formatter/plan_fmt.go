package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/domain"
)

const usageBarWidth = 12

// FormatPlan renders the outcome of a planning run: the study blocks, the
// obligations left without time, and every warning.
func FormatPlan(resp *app.PlanResponse, today time.Time) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Study plan %s → %s", resp.From, resp.To)))
	b.WriteString("\n\n")

	if len(resp.Blocks) == 0 {
		b.WriteString(Dim("No study blocks allocated."))
		b.WriteString("\n")
	} else {
		b.WriteString(FormatBlocks(resp.Blocks, today))
	}

	if len(resp.Blockers) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Not scheduled"))
		b.WriteString("\n")
		for _, bl := range resp.Blockers {
			title := domain.CoalesceStr(bl.ObligationTitle, bl.ObligationID)
			fmt.Fprintf(&b, "  %s %s  %s\n", StyleRed.Render("✖"), Bold(title), Dim(bl.Message))
		}
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarnings(resp.Warnings))
	}

	used := resp.GapCount - resp.UnusedGapCount
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s critical  %s windows used  %s blocks",
		Bold(fmt.Sprint(resp.CriticalCount)),
		RenderUsage(used, resp.GapCount, usageBarWidth),
		Bold(fmt.Sprint(len(resp.Blocks))),
	)
	if resp.FallbackCount > 0 {
		fmt.Fprintf(&b, "  %s", Dim(fmt.Sprintf("(%d template)", resp.FallbackCount)))
	}
	b.WriteString("\n")
	if !resp.Persisted {
		b.WriteString(StyleYellow.Render("Dry run: nothing was saved."))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatBlocks renders study blocks as a table ordered as given.
func FormatBlocks(blocks []domain.StudyBlock, today time.Time) string {
	headers := []string{"DATE", "TIME", "LENGTH", "TITLE", "TEXT"}
	rows := make([][]string, 0, len(blocks))
	for _, bl := range blocks {
		source := StyleGreen.Render("generated")
		if !bl.Generated {
			source = Dim("template")
		}
		rows = append(rows, []string{
			bl.Date + " " + Dim(RelativeDay(bl.Date, today)),
			TimeRange(bl.StartTime, bl.EndTime),
			blockLength(bl),
			Bold(Truncate(bl.Title, 48)),
			source,
		})
	}
	return RenderTable(headers, rows)
}

func blockLength(bl domain.StudyBlock) string {
	start, err := domain.ParseClock(bl.StartTime)
	if err != nil {
		return Dim("--")
	}
	end, err := domain.ParseClock(bl.EndTime)
	if err != nil {
		return Dim("--")
	}
	return FormatMinutes(int(end - start))
}

// FormatWarnings lists warnings under a header, one per line.
func FormatWarnings(ws []domain.Warning) string {
	var b strings.Builder
	b.WriteString(Header("Warnings"))
	b.WriteString("\n")
	for _, w := range ws {
		fmt.Fprintf(&b, "  %s %s\n", WarningStyle(w.Code).Render("!"), w.String())
	}
	return b.String()
}
