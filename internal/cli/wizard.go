package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func studyplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// obligationDraft holds the raw text collected by the obligation form.
type obligationDraft struct {
	Title       string
	Due         string
	Weight      string
	Description string
}

// obligationForm asks for the fields of a new obligation. Values already in
// draft are shown as defaults.
func obligationForm(draft *obligationDraft) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Parcial 1").
				Value(&draft.Title).
				Validate(validateRequired),
			huh.NewInput().
				Title("Due Date (YYYY-MM-DD)").
				Placeholder("2025-06-30").
				Value(&draft.Due).
				Validate(validateDate),
			huh.NewInput().
				Title("Weight (0-100, blank if unknown)").
				Placeholder("30").
				Value(&draft.Weight).
				Validate(validateOptionalWeight),
			huh.NewText().
				Title("Description").
				Value(&draft.Description),
		),
	).WithTheme(studyplanHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateOptionalWeight accepts empty or a number between 0 and 100.
func validateOptionalWeight(s string) error {
	_, err := parseOptionalWeight(s)
	return err
}

func parseOptionalWeight(s string) (*float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 100 {
		return nil, fmt.Errorf("enter a number between 0 and 100")
	}
	return &v, nil
}
