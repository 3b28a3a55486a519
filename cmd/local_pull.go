package cmd

import (
	"github.com/significa/1password-secrets/internal/audit"
	"github.com/significa/1password-secrets/internal/configs"
	"github.com/significa/1password-secrets/internal/secrets"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch secrets from the matching secure note into the local env file",
	Long: `Finds the secure note whose title contains the target pattern of the current
directory and writes its secrets to the env file named by the note (default .env).
If the file already exists, a change summary is shown before it is overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting pull command")
		spinner, cleanup := startSpinner("Pulling secrets from 1Password...", verbose)
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
		result, err := engine.Pull(desc, effectiveVault(settings), dir)
		if err != nil {
			return err
		}

		audit.Log(audit.Entry{
			Operation:    "pull",
			Target:       desc.Pattern(),
			NoteID:       result.Ref.ID,
			File:         result.Path,
			AddedCount:   len(result.Plan.Keys(secrets.OpAdd)),
			UpdatedCount: len(result.Plan.Keys(secrets.OpUpdate)),
			RemovedCount: len(result.Plan.Keys(secrets.OpRemove)),
		})

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Secrets from " + ui.Highlight.Sprint(result.Ref.Title) +
			" written to " + ui.Path.Sprint(result.Path)
		return nil
	},
}
