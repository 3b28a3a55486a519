package errors

import "errors"

// Resolution errors indicate the target secure note could not be pinned down.
var (
	// ErrNoteNotFound indicates no secure note matched the target pattern.
	ErrNoteNotFound = errors.New("no matching secure note found")

	// ErrNoteAmbiguous indicates more than one secure note matched the target
	// pattern. The tool never guesses between candidates.
	ErrNoteAmbiguous = errors.New("multiple secure notes match")

	// ErrNoteExists indicates a secure note already exists for a target that
	// is being created.
	ErrNoteExists = errors.New("a secure note already exists for this target")

	// ErrMalformedNote indicates the secure note contains duplicate field
	// labels and cannot be decoded safely.
	ErrMalformedNote = errors.New("secure note contains duplicate field labels")
)

// Collaborator errors indicate a failure in one of the external CLIs.
var (
	// ErrExternalTool indicates the op or fly CLI exited non-zero, produced
	// output that could not be parsed, or is not installed.
	ErrExternalTool = errors.New("external tool failure")
)

// Local errors indicate problems with the secrets file on disk or the user
// declining an operation.
var (
	// ErrLocalFile indicates the local secrets file is missing, unreadable,
	// unwritable, or could not be parsed.
	ErrLocalFile = errors.New("local secrets file error")

	// ErrAborted indicates the user declined a confirmation prompt.
	ErrAborted = errors.New("aborted by user")
)

// Exit codes, one per error class, so scripts can tell failure modes apart.
const (
	ExitGeneric       = 1
	ExitNoteNotFound  = 2
	ExitNoteAmbiguous = 3
	ExitNoteExists    = 4
	ExitMalformedNote = 5
	ExitExternalTool  = 6
	ExitLocalFile     = 7
	ExitAborted       = 8
)

// ExitCode maps an error to the process exit code for its class.
// Unknown errors map to ExitGeneric.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoteNotFound):
		return ExitNoteNotFound
	case errors.Is(err, ErrNoteAmbiguous):
		return ExitNoteAmbiguous
	case errors.Is(err, ErrNoteExists):
		return ExitNoteExists
	case errors.Is(err, ErrMalformedNote):
		return ExitMalformedNote
	case errors.Is(err, ErrExternalTool):
		return ExitExternalTool
	case errors.Is(err, ErrLocalFile):
		return ExitLocalFile
	case errors.Is(err, ErrAborted):
		return ExitAborted
	default:
		return ExitGeneric
	}
}
