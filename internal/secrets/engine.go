package secrets

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/significa/1password-secrets/internal/errors"
	logger "github.com/significa/1password-secrets/internal/logging"
	"github.com/significa/1password-secrets/internal/onepassword"
	"github.com/significa/1password-secrets/internal/target"
)

// PlatformStore is the deployment-platform collaborator consumed by the fly
// flows. internal/flyio provides the real implementation.
type PlatformStore interface {
	ListSecretNames(app string) ([]string, error)
	ImportSecrets(app string, env []byte) error
	UnsetSecrets(app string, keys []string) error
}

// Prompter asks the operator to confirm a step described by summary.
// Returning false aborts. A nil prompter accepts everything.
type Prompter func(summary string) bool

// Engine orchestrates the resolver, codecs, and reconciler for every sync
// flow. Each flow resolves the note fresh, reads everything it needs, then
// writes; nothing is cached across invocations and nothing is retried.
type Engine struct {
	Notes    NoteStore
	Platform PlatformStore
	Prompt   Prompter
	Log      logger.Logger

	// Now supplies timestamps for the bookkeeping fields. Nil means
	// time.Now; tests pin it.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// confirm runs the prompter and maps a decline to ErrAborted.
func (e *Engine) confirm(summary string) error {
	if e.Prompt == nil || e.Prompt(summary) {
		return nil
	}
	return apperrors.ErrAborted
}

// SyncResult describes a completed pull or push.
type SyncResult struct {
	Ref  onepassword.NoteRef
	Path string
	Plan Plan
}

// CreateResult describes a newly created note.
type CreateResult struct {
	Ref     onepassword.NoteRef
	Title   string
	Link    string
	AppLink string
}

// FlyImportResult describes a completed import to fly.
type FlyImportResult struct {
	Ref     onepassword.NoteRef
	App     string
	Set     []string
	Unset   []string
	Skipped []string
}

// FlyEditResult describes an edit of a fly note.
type FlyEditResult struct {
	Ref  onepassword.NoteRef
	Plan Plan
}

// Pull resolves the note for t and writes its secrets to the local file
// named by the note's file_name metadata (default .env) under dir. When the
// file already exists, the operator confirms the change summary first.
func (e *Engine) Pull(t target.Descriptor, vault, dir string) (*SyncResult, error) {
	ref, desired, meta, _, err := e.resolveAndDecode(t.Pattern(), vault)
	if err != nil {
		return nil, err
	}
	if desired.Len() == 0 {
		return nil, fmt.Errorf("note %q contains no secrets, aborting", ref.Title)
	}

	fileName := meta.FileName()
	if fileName == "" {
		fileName = DefaultEnvFileName
	}
	path := joinIfRelative(dir, fileName)

	prevData, exists, err := ReadSecretsFile(path, false)
	if err != nil {
		return nil, err
	}

	plan := Plan{}
	if exists {
		current, err := ParseEnv(prevData)
		if err != nil {
			return nil, err
		}
		plan = Diff(current, desired)
		if err := e.confirm(plan.Summary()); err != nil {
			return nil, err
		}
	}

	if err := WriteFileAtomic(path, FormatEnv(desired), 0600); err != nil {
		return nil, err
	}

	e.Log.Infof("Wrote %d secrets from %q to %s", desired.Len(), ref.Title, path)
	return &SyncResult{Ref: ref, Path: path, Plan: plan}, nil
}

// Push resolves the note for t and replaces its secret fields with the
// contents of the local file. The full plan is computed and confirmed before
// the note is edited; metadata fields are preserved and the last-edited
// timestamp is stamped.
func (e *Engine) Push(t target.Descriptor, vault, dir string) (*SyncResult, error) {
	ref, current, meta, fields, err := e.resolveAndDecode(t.Pattern(), vault)
	if err != nil {
		return nil, err
	}

	fileName := meta.FileName()
	if fileName == "" {
		fileName = DefaultEnvFileName
	}
	path := joinIfRelative(dir, fileName)

	data, _, err := ReadSecretsFile(path, true)
	if err != nil {
		return nil, err
	}
	desired, err := ParseEnv(data)
	if err != nil {
		return nil, err
	}

	plan := Diff(current, desired)
	if err := e.confirm(plan.Summary()); err != nil {
		return nil, err
	}

	meta.Set(LastEditedLabel, e.now().Format(DateFormat))
	encoded := EncodeFields(desired, meta, fields)
	if err := e.Notes.EditNote(ref.ID, encoded, plan.Keys(OpRemove)); err != nil {
		return nil, err
	}

	e.Log.Infof("Pushed %d secrets from %s to %q", desired.Len(), path, ref.Title)
	return &SyncResult{Ref: ref, Path: path, Plan: plan}, nil
}

// Create makes a new secure note for t from the given env file. It refuses
// to proceed when any note already matches the target pattern: an existing
// note is never overwritten silently.
func (e *Engine) Create(t target.Descriptor, vault, dir, filePath string) (*CreateResult, error) {
	pattern := t.Pattern()

	matches, err := e.Notes.SearchNotes(pattern, vault)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return nil, fmt.Errorf("%w: %d secure notes already match %q:\n%s",
			apperrors.ErrNoteExists, len(matches), pattern, FormatCandidates(matches))
	}

	path := joinIfRelative(dir, filePath)
	data, _, err := ReadSecretsFile(path, true)
	if err != nil {
		return nil, err
	}
	secrets, err := ParseEnv(data)
	if err != nil {
		return nil, err
	}
	if secrets.Len() == 0 {
		return nil, fmt.Errorf("%w: %q contains no secrets", apperrors.ErrLocalFile, path)
	}

	meta := &Metadata{}
	meta.Set(FileNameLabel, filePath)
	meta.Set(LastEditedLabel, e.now().Format(DateFormat))

	title := fmt.Sprintf("%s local development %s", filePath, pattern)
	ref, err := e.Notes.CreateNote(title, vault, EncodeFields(secrets, meta, nil))
	if err != nil {
		return nil, err
	}

	// The share link is a convenience; failing to fetch it does not undo
	// the create.
	link, err := e.Notes.ShareLink(ref.ID)
	if err != nil {
		e.Log.Warnf("Note created but fetching its share link failed: %v", err)
		link = ""
	}

	result := &CreateResult{Ref: ref, Title: title, Link: link}
	if link != "" {
		result.AppLink = strings.Replace(link, "https://start.1password.com/", "onepassword://", 1)
	}
	return result, nil
}

// FlyImport resolves the fly:<app> note and sets every one of its secrets on
// the app in one import call. Fly reports secret names but never values, so
// adds and updates collapse into one unconditional set; platform secrets
// absent from the note are unset after the operator confirms.
func (e *Engine) FlyImport(app, vault string) (*FlyImportResult, error) {
	ref, secrets, meta, fields, err := e.resolveAndDecode(target.FlyApp(app).Pattern(), vault)
	if err != nil {
		return nil, err
	}
	if secrets.Len() == 0 {
		return nil, fmt.Errorf("note %q contains no secrets, aborting", ref.Title)
	}

	names, err := e.Platform.ListSecretNames(app)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, name := range names {
		if !secrets.Has(name) {
			stale = append(stale, name)
		}
	}

	if err := e.Platform.ImportSecrets(app, FormatEnv(secrets)); err != nil {
		return nil, err
	}

	result := &FlyImportResult{Ref: ref, App: app, Set: secrets.Keys()}
	if len(stale) > 0 {
		summary := fmt.Sprintf("The following secrets will be deleted from fly app %s: %s",
			app, strings.Join(stale, ", "))
		if e.Prompt == nil || e.Prompt(summary) {
			if err := e.Platform.UnsetSecrets(app, stale); err != nil {
				return nil, err
			}
			result.Unset = stale
		} else {
			e.Log.WarnfUser("Keeping %d fly secrets that are not in the note: %s",
				len(stale), strings.Join(stale, ", "))
			result.Skipped = stale
		}
	}

	// Stamp the import time on the note. The platform is already updated,
	// so a failure here is worth a warning, not a failed import.
	meta.Set(LastImportedLabel, e.now().Format(DateFormat))
	if err := e.Notes.EditNote(ref.ID, EncodeFields(secrets, meta, fields), nil); err != nil {
		e.Log.Warnf("Failed to record the import time on %q: %v", ref.Title, err)
	}

	return result, nil
}

// FlyEdit round-trips the fly:<app> note through editFn (typically the
// operator's editor on a temp file) and writes the result back to the note
// after a confirmed change summary.
func (e *Engine) FlyEdit(app, vault string, editFn func(env []byte) ([]byte, error)) (*FlyEditResult, error) {
	ref, current, meta, fields, err := e.resolveAndDecode(target.FlyApp(app).Pattern(), vault)
	if err != nil {
		return nil, err
	}

	edited, err := editFn(FormatEnv(current))
	if err != nil {
		return nil, err
	}
	desired, err := ParseEnv(edited)
	if err != nil {
		return nil, err
	}

	plan := Diff(current, desired)
	if err := e.confirm(plan.Summary()); err != nil {
		return nil, err
	}

	meta.Set(LastEditedLabel, e.now().Format(DateFormat))
	if err := e.Notes.EditNote(ref.ID, EncodeFields(desired, meta, fields), plan.Keys(OpRemove)); err != nil {
		return nil, err
	}

	return &FlyEditResult{Ref: ref, Plan: plan}, nil
}

// resolveAndDecode is the shared read path: resolve the single matching
// note, fetch its fields, and split them into secrets and metadata.
func (e *Engine) resolveAndDecode(pattern, vault string) (onepassword.NoteRef, *SecretSet, *Metadata, []onepassword.Field, error) {
	ref, err := ResolveNote(e.Notes, pattern, vault)
	if err != nil {
		return onepassword.NoteRef{}, nil, nil, nil, err
	}
	e.Log.Debugf("Resolved %q to note %q in vault %s", pattern, ref.Title, ref.VaultID)

	fields, err := e.Notes.GetFields(ref.ID)
	if err != nil {
		return onepassword.NoteRef{}, nil, nil, nil, err
	}
	secrets, meta, err := DecodeFields(fields)
	if err != nil {
		return onepassword.NoteRef{}, nil, nil, nil, fmt.Errorf("note %q: %w", ref.Title, err)
	}
	return ref, secrets, meta, fields, nil
}

func joinIfRelative(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
