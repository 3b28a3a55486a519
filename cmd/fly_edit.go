package cmd

import (
	"fmt"

	"github.com/significa/1password-secrets/internal/audit"
	"github.com/significa/1password-secrets/internal/configs"
	"github.com/significa/1password-secrets/internal/secrets"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var flyEditCmd = &cobra.Command{
	Use:   "edit <app-name>",
	Short: "Edit the secrets of the fly:<app-name> secure note in your editor",
	Long: `Opens the secrets of the fly:<app-name> secure note in your editor as an env
file, shows a change summary when you save, and writes the result back to the
note. Afterwards you can import the updated secrets into the app.

The editor is taken from the editor setting, then $VISUAL, then $EDITOR,
falling back to vi.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting fly edit command")
		app := args[0]

		settings, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load settings: %v", err)
		}

		// No spinner here: the command hands the terminal to the editor.
		engine := newEngine(nil)
		result, err := engine.FlyEdit(app, effectiveVault(settings), func(env []byte) ([]byte, error) {
			return editInEditor(env, settings.Editor)
		})
		if err != nil {
			return err
		}

		audit.Log(audit.Entry{
			Operation:    "fly-edit",
			Target:       result.Ref.Title,
			NoteID:       result.Ref.ID,
			App:          app,
			AddedCount:   len(result.Plan.Keys(secrets.OpAdd)),
			UpdatedCount: len(result.Plan.Keys(secrets.OpUpdate)),
			RemovedCount: len(result.Plan.Keys(secrets.OpRemove)),
		})

		if result.Plan.IsEmpty() {
			fmt.Println(ui.Info.Sprint("ℹ") + " No changes made to " + ui.Highlight.Sprint(result.Ref.Title))
			return nil
		}
		fmt.Println(ui.Success.Sprint("✓") + " Note " + ui.Highlight.Sprint(result.Ref.Title) + " updated")

		fmt.Println("The app still has the old secrets until they are imported.")
		if assumeYes || confirmAction() {
			return flyImportCmd.RunE(cmd, args)
		}
		Logger.WarnfUser("Skipped the import, run '1password-secrets fly import %s' to apply the changes", app)
		return nil
	},
}
