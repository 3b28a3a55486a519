// Package logger provides leveled logging for 1password-secrets commands.
//
// Output verbosity is controlled by two command-line flags:
//
//   - --verbose: shows info messages
//   - --debug: shows all messages including debug details
//
// Without flags, only warnings and errors are shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Always shown
//	Logger.WarnfUser()       // Always shown (operator-facing warnings)
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Logs and returns the error
//
// Commands create a logger in their PersistentPreRun from the flag values and
// pass it down to internal functions:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Resolved note %s", ref.Title)
package logger
