package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBackfillCmd(app *App) *cobra.Command {
	var subject, candidatesPath, syllabusPath string
	var dryRun, asJSON bool

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill missing weights and descriptions on calendar entries",
		Long: "Matches a subject's incomplete calendar entries against candidates,\n" +
			"read from a YAML/JSON file or extracted from a syllabus by the configured model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (candidatesPath == "") == (syllabusPath == "") {
				return fmt.Errorf("exactly one of --candidates or --syllabus is required")
			}
			subjectID, err := resolveSubjectID(cmd.Context(), app, subject)
			if err != nil {
				return err
			}

			req := contract.BackfillRequest{SubjectID: subjectID, DryRun: dryRun}
			if candidatesPath != "" {
				if req.Candidates, err = loadCandidates(candidatesPath); err != nil {
					return err
				}
			} else {
				text, err := os.ReadFile(syllabusPath)
				if err != nil {
					return fmt.Errorf("reading syllabus: %w", err)
				}
				req.Syllabus = string(text)
			}

			if syllabusPath != "" && !asJSON && app.interactive() {
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Reading syllabus...")
				defer stop()
			}
			resp, err := app.Backfill.Backfill(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printf(cmd, "%s", formatter.FormatBackfill(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject ID or name")
	cmd.Flags().StringVar(&candidatesPath, "candidates", "", "YAML or JSON list of {title, weight, description}")
	cmd.Flags().StringVar(&syllabusPath, "syllabus", "", "Plain-text syllabus to extract candidates from")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show proposed changes without writing them")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// loadCandidates reads a candidate list. JSON input is accepted because it
// is valid YAML.
func loadCandidates(path string) ([]domain.MatchCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}
	var out []domain.MatchCandidate
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing candidates: %w", err)
	}
	return out, nil
}
