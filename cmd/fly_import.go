package cmd

import (
	"fmt"

	"github.com/significa/1password-secrets/internal/audit"
	"github.com/significa/1password-secrets/internal/configs"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var flyImportCmd = &cobra.Command{
	Use:   "import <app-name>",
	Short: "Import the secrets of the fly:<app-name> secure note into the app",
	Long: `Finds the secure note whose title contains fly:<app-name> and sets every one of
its secrets on the app. App secrets missing from the note are deleted after
confirmation. The note records the import time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting fly import command")
		app := args[0]

		spinner, cleanup := startSpinner(fmt.Sprintf("Importing secrets into fly app %s...", app), verbose)
		defer cleanup()

		settings, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load settings: %v", err)
		}

		engine := newEngine(spinner)
		result, err := engine.FlyImport(app, effectiveVault(settings))
		if err != nil {
			return err
		}

		audit.Log(audit.Entry{
			Operation:    "fly-import",
			Target:       result.Ref.Title,
			NoteID:       result.Ref.ID,
			App:          app,
			AddedCount:   len(result.Set),
			RemovedCount: len(result.Unset),
		})

		finalMessage := ui.Success.Sprint("✓") + fmt.Sprintf(" Imported %d secrets into fly app ", len(result.Set)) +
			ui.Highlight.Sprint(app)
		if len(result.Unset) > 0 {
			finalMessage += fmt.Sprintf("\n%s Deleted %d stale secrets", ui.Success.Sprint("✓"), len(result.Unset))
		}
		if len(result.Skipped) > 0 {
			finalMessage += fmt.Sprintf("\n%s Kept %d secrets that are not in the note", ui.Warning.Sprint("!"), len(result.Skipped))
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
