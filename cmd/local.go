package cmd

import (
	logger "github.com/significa/1password-secrets/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	debug      bool
	assumeYes  bool
	vaultName  string
	remoteName string
	Logger     logger.Logger

	LocalCmd = &cobra.Command{
		Use:   "local",
		Short: "Sync secrets between 1Password secure notes and local env files",
		Long:  `Pulls, pushes, and creates secure notes holding the secrets of the repository or directory you are standing in.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing local command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	LocalCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	LocalCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	LocalCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation prompt")
	LocalCmd.PersistentFlags().StringVar(&vaultName, "vault", "", "restrict note lookups to this vault")
	LocalCmd.PersistentFlags().StringVar(&remoteName, "remote", "origin", "git remote used to name the note")

	LocalCmd.AddCommand(pullCmd)
	LocalCmd.AddCommand(pushCmd)
	LocalCmd.AddCommand(createCmd)
}
