package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseFromDate reads a --from value; empty means today in loc.
func parseFromDate(value string, now time.Time, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.In(loc), nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", value)
	}
	return t, nil
}

// resolveSubjectID maps a subject ID or name to its ID; empty stays empty.
func resolveSubjectID(ctx context.Context, app *App, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	subj, err := app.Subjects.Resolve(ctx, input)
	if err != nil {
		return "", err
	}
	return subj.ID, nil
}

func subjectNames(ctx context.Context, app *App) (map[string]string, error) {
	subjects, err := app.Subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}
	return names, nil
}

func location(app *App) *time.Location {
	loc, err := app.config().Location()
	if err != nil {
		return time.Local
	}
	return loc
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
