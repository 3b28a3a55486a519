package cmd

import (
	"github.com/significa/1password-secrets/internal/audit"
	"github.com/significa/1password-secrets/internal/configs"
	"github.com/significa/1password-secrets/internal/secrets"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Update the matching secure note with the contents of the local env file",
	Long: `Reads the env file named by the matching secure note (default .env) and updates
the note to match it. A change summary is shown and confirmed before the note
is edited; keys missing from the file are removed from the note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting push command")
		spinner, cleanup := startSpinner("Pushing secrets to 1Password...", verbose)
		defer cleanup()

		settings, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load settings: %v", err)
		}
		desc, dir, err := detectTarget()
		if err != nil {
			return err
		}

		engine := newEngine(spinner)
		result, err := engine.Push(desc, effectiveVault(settings), dir)
		if err != nil {
			return err
		}

		audit.Log(audit.Entry{
			Operation:    "push",
			Target:       desc.Pattern(),
			NoteID:       result.Ref.ID,
			File:         result.Path,
			AddedCount:   len(result.Plan.Keys(secrets.OpAdd)),
			UpdatedCount: len(result.Plan.Keys(secrets.OpUpdate)),
			RemovedCount: len(result.Plan.Keys(secrets.OpRemove)),
		})

		if result.Plan.IsEmpty() {
			spinner.FinalMSG = ui.Info.Sprint("ℹ") + " Note " + ui.Highlight.Sprint(result.Ref.Title) +
				" already matches " + ui.Path.Sprint(result.Path)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Note " + ui.Highlight.Sprint(result.Ref.Title) +
			" updated from " + ui.Path.Sprint(result.Path)
		return nil
	},
}
