package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Manage calendar entries",
	}
	cmd.AddCommand(
		newCalendarAddCmd(app),
		newCalendarListCmd(app),
		newCalendarRemoveCmd(app),
		newCalendarImportCmd(app),
	)
	return cmd
}

func newCalendarAddCmd(app *App) *cobra.Command {
	var title, date, start, end, kind, weight, description, subject string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a calendar entry (omit --start/--end for all-day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseOptionalWeight(weight)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", weight, err)
			}
			subjectID, err := resolveSubjectID(cmd.Context(), app, subject)
			if err != nil {
				return err
			}
			e := &domain.CalendarEntry{
				Title:       title,
				Date:        date,
				StartTime:   start,
				EndTime:     end,
				Kind:        domain.EntryKind(kind),
				Weight:      w,
				Description: description,
				SubjectID:   subjectID,
			}
			if err := app.Calendar.Create(cmd.Context(), e); err != nil {
				return err
			}
			printf(cmd, "Added %s on %s %s\n", formatter.Bold(e.Title), e.Date, formatter.TimeRange(e.StartTime, e.EndTime))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Entry title")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&kind, "kind", string(domain.EntryEvent), "class, event, exam or assignment")
	cmd.Flags().StringVar(&weight, "weight", "", "Grading weight 0-100")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject ID or name")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newCalendarListCmd(app *App) *cobra.Command {
	var from string
	var days int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar entries in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseFromDate(from, app.now(), location(app))
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			entries, err := app.Calendar.ListBetween(cmd.Context(),
				domain.FormatDate(start), domain.FormatDate(start.AddDate(0, 0, days)))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			printf(cmd, "%s", formatter.FormatCalendar(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 14, "Number of days")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newCalendarRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a calendar entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Calendar.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Removed calendar entry %s\n", args[0])
			return nil
		},
	}
}

func newCalendarImportCmd(app *App) *cobra.Command {
	var subject, from string
	var days int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <file-or-url>",
		Short: "Import an ICS calendar; re-importing refreshes existing entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := location(app)
			start, err := parseFromDate(from, app.now(), loc)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = app.config().ImportHorizonDays
			}
			subjectID, err := resolveSubjectID(cmd.Context(), app, subject)
			if err != nil {
				return err
			}

			y, m, d := start.Date()
			windowStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
			resp, err := app.Importer.Import(cmd.Context(), contract.CalendarImportRequest{
				Source:    args[0],
				SubjectID: subjectID,
				From:      windowStart,
				To:        windowStart.AddDate(0, 0, days),
				Location:  loc,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printf(cmd, "%s", formatter.FormatImport(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Assign imported entries to this subject (ID or name)")
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 0, "Window length in days (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
