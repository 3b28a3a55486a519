// Package onepassword wraps the 1Password CLI (op) for secure note access.
package onepassword

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/significa/1password-secrets/internal/errors"
)

// secureNoteCategory is the op item category used for env file notes.
const secureNoteCategory = "Secure Note"

// Field is one labeled value in a secure note.
type Field struct {
	Label     string
	Value     string
	Concealed bool
}

// NoteSummary describes one candidate note from a search.
type NoteSummary struct {
	ID        string
	Title     string
	VaultID   string
	VaultName string
}

// NoteRef identifies a resolved secure note. It is immutable for the rest of
// the command invocation.
type NoteRef struct {
	ID      string
	Title   string
	VaultID string
}

// Runner executes one op invocation and returns its stdout.
// Tests substitute a fake; the default shells out to the op binary.
type Runner interface {
	Run(args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(args ...string) ([]byte, error) {
	out, err := exec.Command("op", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return nil, fmt.Errorf("%w: op %s: %s",
				apperrors.ErrExternalTool, args[0], strings.TrimSpace(string(exitErr.Stderr)))
		case errors.Is(err, exec.ErrNotFound):
			return nil, fmt.Errorf("%w: op CLI not found in PATH (install the 1Password CLI first)", apperrors.ErrExternalTool)
		default:
			return nil, fmt.Errorf("%w: op %s: %v", apperrors.ErrExternalTool, args[0], err)
		}
	}
	return out, nil
}

// Client talks to 1Password through the op CLI.
type Client struct {
	run Runner
}

// NewClient returns a client backed by the op binary on PATH.
func NewClient() *Client {
	return &Client{run: execRunner{}}
}

// NewClientWithRunner returns a client using a custom runner. Used in tests.
func NewClientWithRunner(r Runner) *Client {
	return &Client{run: r}
}

// itemSummary mirrors one element of `op item list --format json`.
type itemSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Vault struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"vault"`
}

// itemField mirrors one element of the fields array in `op item get`.
type itemField struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// SearchNotes lists secure notes whose title contains pattern. The match is a
// case-sensitive substring test over the full title. A non-empty vault
// restricts the listing before matching.
func (c *Client) SearchNotes(pattern, vault string) ([]NoteSummary, error) {
	args := []string{"item", "list", "--categories", secureNoteCategory, "--format", "json"}
	if vault != "" {
		args = append(args, "--vault", vault)
	}

	out, err := c.run.Run(args...)
	if err != nil {
		return nil, err
	}

	var items []itemSummary
	if err := json.Unmarshal(out, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to parse op item list output: %v", apperrors.ErrExternalTool, err)
	}

	var matches []NoteSummary
	for _, item := range items {
		if strings.Contains(item.Title, pattern) {
			matches = append(matches, NoteSummary{
				ID:        item.ID,
				Title:     item.Title,
				VaultID:   item.Vault.ID,
				VaultName: item.Vault.Name,
			})
		}
	}
	return matches, nil
}

// GetFields returns the labeled fields of a note. The built-in notes body
// field (purpose NOTES) is not part of the key-value data and is skipped.
func (c *Client) GetFields(noteID string) ([]Field, error) {
	out, err := c.run.Run("item", "get", noteID, "--format", "json")
	if err != nil {
		return nil, err
	}

	var item struct {
		Fields []itemField `json:"fields"`
	}
	if err := json.Unmarshal(out, &item); err != nil {
		return nil, fmt.Errorf("%w: failed to parse op item get output: %v", apperrors.ErrExternalTool, err)
	}

	var fields []Field
	for _, f := range item.Fields {
		if f.Purpose == "NOTES" {
			continue
		}
		fields = append(fields, Field{
			Label:     f.Label,
			Value:     f.Value,
			Concealed: f.Type == "CONCEALED",
		})
	}
	return fields, nil
}

// CreateNote creates a secure note with the given title and fields.
// An empty vault uses the account default.
func (c *Client) CreateNote(title, vault string, fields []Field) (NoteRef, error) {
	args := []string{"item", "create", "--category", secureNoteCategory, "--title", title, "--format", "json"}
	if vault != "" {
		args = append(args, "--vault", vault)
	}
	for _, f := range fields {
		args = append(args, assignment(f))
	}

	out, err := c.run.Run(args...)
	if err != nil {
		return NoteRef{}, err
	}

	var item itemSummary
	if err := json.Unmarshal(out, &item); err != nil {
		return NoteRef{}, fmt.Errorf("%w: failed to parse op item create output: %v", apperrors.ErrExternalTool, err)
	}
	return NoteRef{ID: item.ID, Title: item.Title, VaultID: item.Vault.ID}, nil
}

// EditNote sets the given fields on a note and deletes the removed labels.
// The caller passes the full desired field list; op applies assignments
// individually, so removals are explicit delete assignments.
func (c *Client) EditNote(noteID string, set []Field, removeLabels []string) error {
	args := []string{"item", "edit", noteID, "--format", "json"}
	for _, f := range set {
		args = append(args, assignment(f))
	}
	for _, label := range removeLabels {
		args = append(args, escapeLabel(label)+"[delete]")
	}

	_, err := c.run.Run(args...)
	return err
}

// ShareLink returns the private share link for a note.
func (c *Client) ShareLink(noteID string) (string, error) {
	out, err := c.run.Run("item", "get", noteID, "--share-link")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// assignment renders an op field assignment argument, label[type]=value.
// Concealed fields use the password type so op redacts them in its own UI.
func assignment(f Field) string {
	fieldType := "text"
	if f.Concealed {
		fieldType = "password"
	}
	return fmt.Sprintf("%s[%s]=%s", escapeLabel(f.Label), fieldType, f.Value)
}

// escapeLabel escapes the characters op treats specially in assignment
// labels: backslashes, periods (section separators), and equals signs.
func escapeLabel(label string) string {
	r := strings.NewReplacer(`\`, `\\`, `.`, `\.`, `=`, `\=`)
	return r.Replace(label)
}
