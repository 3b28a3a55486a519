package cmd

import (
	logger "github.com/significa/1password-secrets/internal/logging"
	"github.com/spf13/cobra"
)

var FlyCmd = &cobra.Command{
	Use:   "fly",
	Short: "Sync secrets between 1Password secure notes and Fly.io apps",
	Long:  `Imports the secrets of a fly:<app-name> secure note into the app, or edits the note in your editor.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing fly command with verbose=%t, debug=%t", verbose, debug)
	},
}

func init() {
	FlyCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	FlyCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	FlyCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation prompt")
	FlyCmd.PersistentFlags().StringVar(&vaultName, "vault", "", "restrict note lookups to this vault")

	FlyCmd.AddCommand(flyImportCmd)
	FlyCmd.AddCommand(flyEditCmd)
}
