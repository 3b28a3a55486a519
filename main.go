package main

import (
	"fmt"
	"os"

	"github.com/significa/1password-secrets/cmd"
	apperrors "github.com/significa/1password-secrets/internal/errors"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "1password-secrets",
	Short: "1password-secrets - Sync secrets between 1Password secure notes, local env files, and Fly.io apps",
	Long: `1password-secrets keeps the secrets of a project in a single 1Password secure
note and syncs them to the places that need them.

Notes are matched by a pattern derived from where you run the tool:
  repo:<owner>/<repo>   inside a git repository
  local:<directory>     outside one
  fly:<app-name>        for Fly.io apps

Available Commands:
  local      Pull, push, and create notes for the current directory
  fly        Import note secrets into a Fly.io app, or edit them
  config     Manage tool configuration
  log        View the audit log

Run '1password-secrets help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Run '1password-secrets --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.LocalCmd)
	rootCmd.AddCommand(cmd.FlyCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
	rootCmd.AddCommand(cmd.LogCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		os.Exit(apperrors.ExitCode(err))
	}
}
