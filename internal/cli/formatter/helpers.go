package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes an ISO date relative to today ("Today", "In 3d",
// "2d ago"). Unreadable dates are returned as given.
func RelativeDay(date string, today time.Time) string {
	d, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	y, m, dd := today.Date()
	base := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(base).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("%dw ago", -days/7)
	}
}

// DueStyled renders a due date with urgency coloring: red within two days
// or overdue, yellow within a week.
func DueStyled(date string, today time.Time) string {
	d, err := domain.ParseDate(date)
	if err != nil {
		return StyleRed.Render(date)
	}
	y, m, dd := today.Date()
	days := int(d.Sub(time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)).Hours() / 24)

	style := StyleFg
	switch {
	case days <= 2:
		style = StyleRed
	case days <= 7:
		style = StyleYellow
	}
	return style.Render(date) + " " + Dim("("+RelativeDay(date, today)+")")
}

// WeightLabel renders a grading weight, or a dim dash when unknown.
func WeightLabel(w *float64) string {
	if w == nil {
		return Dim("--")
	}
	return fmt.Sprintf("%g%%", *w)
}

// TimeRange renders "HH:MM-HH:MM", or "all day" when either end is missing.
func TimeRange(start, end string) string {
	if start == "" || end == "" {
		return Dim("all day")
	}
	return start + "-" + end
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// FormatMinutes converts raw minutes into "1h 30m" form.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
