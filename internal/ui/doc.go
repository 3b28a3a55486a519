// Package ui provides semantic text formatting for CLI output.
//
// Formatters render appropriately based on terminal capabilities: colors when
// available, text decorations (backticks, quotes) when NO_COLOR is set or the
// terminal does not support color.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("1password-secrets local pull") // Runnable commands
//	ui.Path.Sprint(".env")                         // File paths
//	ui.Success.Sprint("✓")                         // Success indicators
//	ui.Error.Sprint("✗")                           // Error indicators
//	ui.Info.Sprint("→")                            // Hints
//	ui.Highlight.Sprint("my-fly-app")              // User values
//	ui.Muted.Sprint("optional")                    // De-emphasized text
package ui
