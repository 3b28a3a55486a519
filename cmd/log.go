package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/significa/1password-secrets/internal/audit"
	logger "github.com/significa/1password-secrets/internal/logging"

	"github.com/spf13/cobra"
)

var (
	logLimit int
	logJSON  bool
)

func init() {
	LogCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	LogCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	LogCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown (most recent)")
	LogCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

var LogCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log of past operations",
	Long: `Displays the audit log of sync operations: what was pulled, pushed, created,
or imported, when, and how many keys changed. Values are never recorded.

Examples:
  1password-secrets log          # View full log
  1password-secrets log -n 10    # Last 10 entries
  1password-secrets log --json   # JSON output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger = logger.Logger{Verbose: verbose, Debug: debug}

		entries, err := audit.ReadEntries()
		if err != nil {
			return fmt.Errorf("failed to read the audit log: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No audit log entries found.")
			return nil
		}

		if logLimit > 0 && len(entries) > logLimit {
			entries = entries[len(entries)-logLimit:]
		}

		if logJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal entries to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-27s  %-10s  %s\n", e.Timestamp, e.Operation, formatLogDetails(e))
		}
		return nil
	},
}

// formatLogDetails renders the operation-specific fields of an entry on one line.
func formatLogDetails(e audit.Entry) string {
	var parts []string
	if e.Target != "" {
		parts = append(parts, e.Target)
	}
	if e.App != "" {
		parts = append(parts, "app="+e.App)
	}
	if e.File != "" {
		parts = append(parts, "file="+e.File)
	}
	if e.AddedCount > 0 {
		parts = append(parts, fmt.Sprintf("+%d", e.AddedCount))
	}
	if e.UpdatedCount > 0 {
		parts = append(parts, fmt.Sprintf("~%d", e.UpdatedCount))
	}
	if e.RemovedCount > 0 {
		parts = append(parts, fmt.Sprintf("-%d", e.RemovedCount))
	}
	return strings.Join(parts, "  ")
}
