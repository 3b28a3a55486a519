package secrets

import (
	"fmt"
	"strings"

	apperrors "github.com/significa/1password-secrets/internal/errors"
	"github.com/significa/1password-secrets/internal/onepassword"
)

// NoteStore is the secrets-manager collaborator consumed by the resolver and
// the sync engine. internal/onepassword provides the real implementation.
type NoteStore interface {
	SearchNotes(pattern, vault string) ([]onepassword.NoteSummary, error)
	GetFields(noteID string) ([]onepassword.Field, error)
	CreateNote(title, vault string, fields []onepassword.Field) (onepassword.NoteRef, error)
	EditNote(noteID string, set []onepassword.Field, removeLabels []string) error
	ShareLink(noteID string) (string, error)
}

// ResolveNote finds exactly one secure note whose title contains pattern.
// A non-empty vault narrows the search before the count check, never as a
// tie-break. Zero matches fail with ErrNoteNotFound; more than one fails
// with ErrNoteAmbiguous listing every candidate, because picking the wrong
// note could expose or overwrite the wrong secrets.
func ResolveNote(store NoteStore, pattern, vault string) (onepassword.NoteRef, error) {
	matches, err := store.SearchNotes(pattern, vault)
	if err != nil {
		return onepassword.NoteRef{}, err
	}

	switch len(matches) {
	case 0:
		return onepassword.NoteRef{}, fmt.Errorf(
			"%w: no secure note with a title containing %q", apperrors.ErrNoteNotFound, pattern)
	case 1:
		m := matches[0]
		return onepassword.NoteRef{ID: m.ID, Title: m.Title, VaultID: m.VaultID}, nil
	default:
		return onepassword.NoteRef{}, fmt.Errorf(
			"%w: %d secure notes have a title containing %q, expected exactly one:\n%s",
			apperrors.ErrNoteAmbiguous, len(matches), pattern, FormatCandidates(matches))
	}
}

// FormatCandidates lists note titles and their vaults, one per line, for
// ambiguity and already-exists errors.
func FormatCandidates(matches []onepassword.NoteSummary) string {
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		vault := m.VaultName
		if vault == "" {
			vault = m.VaultID
		}
		fmt.Fprintf(&b, "  - %s (vault %s)", m.Title, vault)
	}
	return b.String()
}
