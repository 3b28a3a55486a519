// Package errors provides typed error values for 1password-secrets.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. Each error
// class also maps to a distinct process exit code so shell scripts can tell
// failure modes apart.
//
// # Error Categories
//
//   - Resolution errors: the target note could not be identified uniquely
//     (ErrNoteNotFound, ErrNoteAmbiguous, ErrNoteExists, ErrMalformedNote)
//   - Collaborator errors: the op or fly CLI failed (ErrExternalTool)
//   - Local errors: secrets file problems or user abort (ErrLocalFile,
//     ErrAborted)
//
// # Usage
//
// Wrap sentinels with context when returning:
//
//	return fmt.Errorf("%w: pattern %q matched no secure notes", errors.ErrNoteNotFound, pattern)
//
// Map to an exit code at the top level:
//
//	os.Exit(errors.ExitCode(err))
package errors
