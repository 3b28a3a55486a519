package cmd

import (
	"github.com/significa/1password-secrets/internal/audit"
	"github.com/significa/1password-secrets/internal/configs"
	"github.com/significa/1password-secrets/internal/secrets"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [env-file]",
	Short: "Create a new secure note from a local env file",
	Long: `Creates a secure note holding the secrets of the given env file (default .env),
titled after the file and the target pattern of the current directory. Refuses
to create a second note for a target that already has one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting create command")
		spinner, cleanup := startSpinner("Creating secure note...", verbose)
		defer cleanup()

		settings, err := configs.Load()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load settings: %v", err)
		}
		desc, dir, err := detectTarget()
		if err != nil {
			return err
		}

		fileName := secrets.DefaultEnvFileName
		if len(args) == 1 {
			fileName = args[0]
		}

		engine := newEngine(spinner)
		result, err := engine.Create(desc, effectiveVault(settings), dir, fileName)
		if err != nil {
			return err
		}

		audit.Log(audit.Entry{
			Operation: "create",
			Target:    desc.Pattern(),
			NoteID:    result.Ref.ID,
			File:      fileName,
		})

		finalMessage := ui.Success.Sprint("✓") + " Created secure note " + ui.Highlight.Sprint(result.Title)
		if result.Link != "" {
			finalMessage += "\n" + ui.Info.Sprint("→") + " " + result.Link +
				"\n" + ui.Info.Sprint("→") + " " + result.AppLink
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
