package cli

import (
	"fmt"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newObligationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "obligation",
		Aliases: []string{"ob"},
		Short:   "Manage exams, assignments and deadlines",
	}
	cmd.AddCommand(
		newObligationAddCmd(app),
		newObligationListCmd(app),
		newObligationRemoveCmd(app),
	)
	return cmd
}

func newObligationAddCmd(app *App) *cobra.Command {
	var draft obligationDraft
	var subject, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an obligation (opens a form when --title is missing on a terminal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if draft.Title == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				if err := obligationForm(&draft).Run(); err != nil {
					return err
				}
			}

			weight, err := parseOptionalWeight(draft.Weight)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", draft.Weight, err)
			}
			subjectID, err := resolveSubjectID(cmd.Context(), app, subject)
			if err != nil {
				return err
			}

			o := &domain.Obligation{
				Title:       draft.Title,
				DueDate:     draft.Due,
				Weight:      weight,
				Description: draft.Description,
				SubjectID:   subjectID,
				Color:       color,
			}
			if err := app.Obligations.Create(cmd.Context(), o); err != nil {
				return err
			}
			printf(cmd, "Added %s due %s %s\n", formatter.Bold(o.Title), o.DueDate, formatter.TruncID(o.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "Obligation title")
	cmd.Flags().StringVar(&draft.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&draft.Weight, "weight", "", "Grading weight 0-100")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Description")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject ID or name")
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	return cmd
}

func newObligationListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List obligations by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := app.Obligations.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), obs)
			}
			names, err := subjectNames(cmd.Context(), app)
			if err != nil {
				return err
			}
			printf(cmd, "%s", formatter.FormatObligations(obs, names, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newObligationRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an obligation and its study blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Obligations.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Removed obligation %s\n", args[0])
			return nil
		},
	}
}
