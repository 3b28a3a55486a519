package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/significa/1password-secrets/internal/configs"
	logger "github.com/significa/1password-secrets/internal/logging"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool configuration",
	Long:  `Shows and updates the user-level settings stored in the config file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
}

func init() {
	ConfigCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	ConfigCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := configs.Load()
		if err != nil {
			return err
		}
		path, err := configs.Path()
		if err != nil {
			return err
		}

		if configShowJSON {
			data, err := json.MarshalIndent(map[string]string{
				"default_vault": settings.DefaultVault,
				"editor":        settings.Editor,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal settings to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(ui.Muted.Sprint(path))
		fmt.Printf("default_vault = %q\n", settings.DefaultVault)
		fmt.Printf("editor = %q\n", settings.Editor)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration value",
	Long: `Updates a setting in the config file.

Available keys:
  default_vault   vault searched when --vault is not given
  editor          editor command used by fly edit`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		settings, err := configs.Load()
		if err != nil {
			return err
		}

		switch key {
		case "default_vault":
			settings.DefaultVault = value
		case "editor":
			settings.Editor = value
		default:
			return fmt.Errorf("unknown setting %q (expected default_vault or editor)", key)
		}

		if err := configs.Save(settings); err != nil {
			return err
		}
		fmt.Println(ui.Success.Sprint("✓") + " Set " + ui.Code.Sprint(key) + " to " + ui.Highlight.Sprint(value))
		return nil
	},
}
