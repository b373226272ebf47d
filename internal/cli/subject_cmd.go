package cli

import (
	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newSubjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}
	cmd.AddCommand(newSubjectAddCmd(app), newSubjectListCmd(app))
	return cmd
}

func newSubjectAddCmd(app *App) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Subject{Name: name, Color: color}
			if err := app.Subjects.Create(cmd.Context(), s); err != nil {
				return err
			}
			printf(cmd, "Created subject %s %s\n", formatter.Bold(s.Name), formatter.TruncID(s.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Subject name")
	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #83a598")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSubjectListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := app.Subjects.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), subjects)
			}
			printf(cmd, "%s", formatter.FormatSubjects(subjects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
