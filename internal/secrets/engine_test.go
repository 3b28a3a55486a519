package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/significa/1password-secrets/internal/errors"
	"github.com/significa/1password-secrets/internal/onepassword"
	"github.com/significa/1password-secrets/internal/target"
)

// fakeNote is one stored note in the fake store.
type fakeNote struct {
	id        string
	title     string
	vaultID   string
	vaultName string
	fields    []onepassword.Field
}

type editCall struct {
	noteID string
	set    []onepassword.Field
	remove []string
}

type createCall struct {
	title  string
	vault  string
	fields []onepassword.Field
}

// fakeNoteStore implements NoteStore in memory. SearchNotes applies the same
// substring-over-title policy as the real op client.
type fakeNoteStore struct {
	notes   []fakeNote
	edits   []editCall
	creates []createCall
	link    string
}

func newFakeNoteStore(notes ...fakeNote) *fakeNoteStore {
	return &fakeNoteStore{notes: notes, link: "https://start.1password.com/open/i?a=x"}
}

func (f *fakeNoteStore) SearchNotes(pattern, vault string) ([]onepassword.NoteSummary, error) {
	var matches []onepassword.NoteSummary
	for _, n := range f.notes {
		if vault != "" && n.vaultName != vault && n.vaultID != vault {
			continue
		}
		if strings.Contains(n.title, pattern) {
			matches = append(matches, onepassword.NoteSummary{
				ID: n.id, Title: n.title, VaultID: n.vaultID, VaultName: n.vaultName,
			})
		}
	}
	return matches, nil
}

func (f *fakeNoteStore) GetFields(noteID string) ([]onepassword.Field, error) {
	for _, n := range f.notes {
		if n.id == noteID {
			return n.fields, nil
		}
	}
	return nil, errors.New("no such note")
}

func (f *fakeNoteStore) CreateNote(title, vault string, fields []onepassword.Field) (onepassword.NoteRef, error) {
	f.creates = append(f.creates, createCall{title: title, vault: vault, fields: fields})
	return onepassword.NoteRef{ID: "created-1", Title: title, VaultID: "v1"}, nil
}

func (f *fakeNoteStore) EditNote(noteID string, set []onepassword.Field, removeLabels []string) error {
	f.edits = append(f.edits, editCall{noteID: noteID, set: set, remove: removeLabels})
	return nil
}

func (f *fakeNoteStore) ShareLink(noteID string) (string, error) {
	return f.link, nil
}

// fakePlatform implements PlatformStore in memory.
type fakePlatform struct {
	names   []string
	imports [][]byte
	unsets  [][]string
}

func (f *fakePlatform) ListSecretNames(app string) ([]string, error) {
	return f.names, nil
}

func (f *fakePlatform) ImportSecrets(app string, env []byte) error {
	f.imports = append(f.imports, env)
	return nil
}

func (f *fakePlatform) UnsetSecrets(app string, keys []string) error {
	f.unsets = append(f.unsets, keys)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
}

func newTestEngine(notes *fakeNoteStore, platform *fakePlatform) *Engine {
	return &Engine{Notes: notes, Platform: platform, Now: fixedNow}
}

func TestPushScenario(t *testing.T) {
	// Note has API_KEY=abc and file_name=prod.env; local prod.env has
	// API_KEY=xyz and NEW=1. Push must update, add, and keep metadata.
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "repo:org/x", vaultID: "v1", vaultName: "Engineering",
		fields: []onepassword.Field{
			{Label: "API_KEY", Value: "abc", Concealed: true},
			{Label: "file_name", Value: "prod.env"},
		},
	})
	engine := newTestEngine(notes, nil)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prod.env"), []byte("API_KEY=xyz\nNEW=1\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	result, err := engine.Push(target.Repo("org", "x"), "", dir)
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	wantPlan := Plan{
		{Kind: OpUpdate, Key: "API_KEY", Value: "xyz"},
		{Kind: OpAdd, Key: "NEW", Value: "1"},
	}
	if len(result.Plan) != len(wantPlan) {
		t.Fatalf("plan = %+v, want %+v", result.Plan, wantPlan)
	}
	for i := range wantPlan {
		if result.Plan[i] != wantPlan[i] {
			t.Errorf("plan op %d = %+v, want %+v", i, result.Plan[i], wantPlan[i])
		}
	}

	if len(notes.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(notes.edits))
	}
	edit := notes.edits[0]
	labels := make([]string, len(edit.set))
	for i, f := range edit.set {
		labels[i] = f.Label
	}
	want := []string{"API_KEY", "NEW", "file_name", "last edited at"}
	if strings.Join(labels, ",") != strings.Join(want, ",") {
		t.Errorf("edited field labels = %v, want %v", labels, want)
	}
	if edit.set[0].Value != "xyz" || edit.set[1].Value != "1" || edit.set[2].Value != "prod.env" {
		t.Errorf("unexpected edited field values: %+v", edit.set)
	}
	if edit.set[3].Value != "2024/06/01 12:30:00" {
		t.Errorf("last edited at = %q", edit.set[3].Value)
	}
	if len(edit.remove) != 0 {
		t.Errorf("expected no removals, got %v", edit.remove)
	}
}

func TestPushRemovesDroppedKeysButNeverMetadata(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "repo:org/x", vaultID: "v1",
		fields: []onepassword.Field{
			{Label: "KEEP", Value: "1", Concealed: true},
			{Label: "DROP", Value: "2", Concealed: true},
			{Label: "file_name", Value: ".env"},
		},
	})
	engine := newTestEngine(notes, nil)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("KEEP=1\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	result, err := engine.Push(target.Repo("org", "x"), "", dir)
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if got := result.Plan.Keys(OpRemove); len(got) != 1 || got[0] != "DROP" {
		t.Errorf("expected removal of DROP only, got %v", got)
	}
	edit := notes.edits[0]
	if len(edit.remove) != 1 || edit.remove[0] != "DROP" {
		t.Errorf("expected note edit to delete DROP only, got %v", edit.remove)
	}
	for _, f := range edit.set {
		if f.Label == "DROP" {
			t.Errorf("removed key must not be re-set: %+v", edit.set)
		}
	}
}

func TestPushMissingFileFails(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "repo:org/x",
		fields: []onepassword.Field{{Label: "A", Value: "1"}},
	})
	engine := newTestEngine(notes, nil)

	_, err := engine.Push(target.Repo("org", "x"), "", t.TempDir())
	if !errors.Is(err, apperrors.ErrLocalFile) {
		t.Fatalf("expected ErrLocalFile, got: %v", err)
	}
}

func TestPushDeclinedPromptAbortsBeforeWrite(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "repo:org/x",
		fields: []onepassword.Field{{Label: "A", Value: "1", Concealed: true}},
	})
	engine := newTestEngine(notes, nil)
	engine.Prompt = func(summary string) bool { return false }

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("A=2\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	_, err := engine.Push(target.Repo("org", "x"), "", dir)
	if !errors.Is(err, apperrors.ErrAborted) {
		t.Fatalf("expected ErrAborted, got: %v", err)
	}
	if len(notes.edits) != 0 {
		t.Errorf("declined push must not edit the note, got %d edits", len(notes.edits))
	}
}

func TestPullWritesFileNamedByMetadata(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "local:myproject",
		fields: []onepassword.Field{
			{Label: "API_KEY", Value: "abc", Concealed: true},
			{Label: "B", Value: "2", Concealed: true},
			{Label: "file_name", Value: "dev.env"},
		},
	})
	engine := newTestEngine(notes, nil)

	dir := t.TempDir()
	result, err := engine.Pull(target.LocalDir("myproject"), "", dir)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}

	wantPath := filepath.Join(dir, "dev.env")
	if result.Path != wantPath {
		t.Errorf("Path = %q, want %q", result.Path, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("failed to read pulled file: %v", err)
	}
	if string(data) != "API_KEY=abc\nB=2\n" {
		t.Errorf("pulled file = %q", data)
	}
}

func TestPullDefaultsToDotEnv(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "local:myproject",
		fields: []onepassword.Field{{Label: "A", Value: "1", Concealed: true}},
	})
	engine := newTestEngine(notes, nil)

	dir := t.TempDir()
	result, err := engine.Pull(target.LocalDir("myproject"), "", dir)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if filepath.Base(result.Path) != ".env" {
		t.Errorf("expected default .env, got %q", result.Path)
	}
}

func TestPullOverExistingFilePromptsWithPlan(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "local:myproject",
		fields: []onepassword.Field{{Label: "A", Value: "new", Concealed: true}},
	})
	engine := newTestEngine(notes, nil)

	var prompted string
	engine.Prompt = func(summary string) bool {
		prompted = summary
		return true
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("A=old\nGONE=1\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	if _, err := engine.Pull(target.LocalDir("myproject"), "", dir); err != nil {
		t.Fatalf("Pull failed: %v", err)
	}

	if !strings.Contains(prompted, "A") || !strings.Contains(prompted, "GONE") {
		t.Errorf("prompt should summarize the change, got %q", prompted)
	}
	if strings.Contains(prompted, "new") || strings.Contains(prompted, "old") {
		t.Errorf("prompt must not leak values, got %q", prompted)
	}
}

func TestPullDeclinedLeavesFileUntouched(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "local:myproject",
		fields: []onepassword.Field{{Label: "A", Value: "new", Concealed: true}},
	})
	engine := newTestEngine(notes, nil)
	engine.Prompt = func(summary string) bool { return false }

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("A=old\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	_, err := engine.Pull(target.LocalDir("myproject"), "", dir)
	if !errors.Is(err, apperrors.ErrAborted) {
		t.Fatalf("expected ErrAborted, got: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "A=old\n" {
		t.Errorf("declined pull must not modify the file, got %q", data)
	}
}

func TestCreateRefusesWhenNoteExists(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{id: "a1", title: "old note repo:org/x", vaultName: "Engineering"})
	engine := newTestEngine(notes, nil)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	_, err := engine.Create(target.Repo("org", "x"), "", dir, ".env")
	if !errors.Is(err, apperrors.ErrNoteExists) {
		t.Fatalf("expected ErrNoteExists, got: %v", err)
	}
	if len(notes.creates) != 0 {
		t.Errorf("create must not proceed when a note exists")
	}
}

func TestCreateNewNote(t *testing.T) {
	notes := newFakeNoteStore()
	engine := newTestEngine(notes, nil)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "secrets.env"), []byte("A=1\nB=2\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	result, err := engine.Create(target.Repo("org", "x"), "Engineering", dir, "secrets.env")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if result.Title != "secrets.env local development repo:org/x" {
		t.Errorf("unexpected title: %q", result.Title)
	}
	if result.AppLink != "onepassword://open/i?a=x" {
		t.Errorf("unexpected app link: %q", result.AppLink)
	}

	if len(notes.creates) != 1 {
		t.Fatalf("expected 1 create, got %d", len(notes.creates))
	}
	created := notes.creates[0]
	if created.vault != "Engineering" {
		t.Errorf("vault = %q", created.vault)
	}
	var fileName string
	for _, f := range created.fields {
		if f.Label == FileNameLabel {
			fileName = f.Value
		}
	}
	if fileName != "secrets.env" {
		t.Errorf("file_name metadata = %q, want secrets.env", fileName)
	}
}

func TestFlyImportScenario(t *testing.T) {
	// Note secrets {A:1, B:2}; platform names {B, C}. Import must set A and
	// B (single import call) and unset C.
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "fly:my-app",
		fields: []onepassword.Field{
			{Label: "A", Value: "1", Concealed: true},
			{Label: "B", Value: "2", Concealed: true},
		},
	})
	platform := &fakePlatform{names: []string{"B", "C"}}
	engine := newTestEngine(notes, platform)

	result, err := engine.FlyImport("my-app", "")
	if err != nil {
		t.Fatalf("FlyImport failed: %v", err)
	}

	if len(platform.imports) != 1 {
		t.Fatalf("expected 1 import call, got %d", len(platform.imports))
	}
	if string(platform.imports[0]) != "A=1\nB=2\n" {
		t.Errorf("import body = %q", platform.imports[0])
	}
	if len(platform.unsets) != 1 || strings.Join(platform.unsets[0], ",") != "C" {
		t.Errorf("expected unset of C, got %v", platform.unsets)
	}
	if strings.Join(result.Set, ",") != "A,B" {
		t.Errorf("Set = %v", result.Set)
	}
	if strings.Join(result.Unset, ",") != "C" {
		t.Errorf("Unset = %v", result.Unset)
	}
}

func TestFlyImportStampsNote(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "fly:my-app",
		fields: []onepassword.Field{{Label: "A", Value: "1", Concealed: true}},
	})
	platform := &fakePlatform{}
	engine := newTestEngine(notes, platform)

	if _, err := engine.FlyImport("my-app", ""); err != nil {
		t.Fatalf("FlyImport failed: %v", err)
	}

	if len(notes.edits) != 1 {
		t.Fatalf("expected the import to stamp the note, got %d edits", len(notes.edits))
	}
	var stamped string
	for _, f := range notes.edits[0].set {
		if f.Label == LastImportedLabel {
			stamped = f.Value
		}
	}
	if stamped != "2024/06/01 12:30:00" {
		t.Errorf("last imported at = %q", stamped)
	}
}

func TestFlyImportDeclinedUnsetKeepsStaleSecrets(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "fly:my-app",
		fields: []onepassword.Field{{Label: "A", Value: "1", Concealed: true}},
	})
	platform := &fakePlatform{names: []string{"STALE"}}
	engine := newTestEngine(notes, platform)
	engine.Prompt = func(summary string) bool { return false }

	result, err := engine.FlyImport("my-app", "")
	if err != nil {
		t.Fatalf("FlyImport failed: %v", err)
	}

	if len(platform.unsets) != 0 {
		t.Errorf("declined unset must not call the platform, got %v", platform.unsets)
	}
	if strings.Join(result.Skipped, ",") != "STALE" {
		t.Errorf("Skipped = %v", result.Skipped)
	}
	// The import itself still happens.
	if len(platform.imports) != 1 {
		t.Errorf("expected the import call to proceed, got %d", len(platform.imports))
	}
}

func TestFlyImportEmptyNoteFails(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{id: "a1", title: "fly:my-app"})
	engine := newTestEngine(notes, &fakePlatform{})

	if _, err := engine.FlyImport("my-app", ""); err == nil {
		t.Fatal("expected an error for a note with no secrets")
	}
	if len(notes.edits) != 0 {
		t.Errorf("failed import must not stamp the note")
	}
}

func TestFlyEditRoundTrip(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "fly:my-app",
		fields: []onepassword.Field{
			{Label: "A", Value: "1", Concealed: true},
			{Label: "B", Value: "2", Concealed: true},
		},
	})
	engine := newTestEngine(notes, nil)

	var sawBody string
	result, err := engine.FlyEdit("my-app", "", func(env []byte) ([]byte, error) {
		sawBody = string(env)
		return []byte("A=changed\nC=3\n"), nil
	})
	if err != nil {
		t.Fatalf("FlyEdit failed: %v", err)
	}

	if sawBody != "A=1\nB=2\n" {
		t.Errorf("editor saw %q", sawBody)
	}
	if got := result.Plan.Keys(OpUpdate); len(got) != 1 || got[0] != "A" {
		t.Errorf("expected update of A, got %v", got)
	}
	if got := result.Plan.Keys(OpAdd); len(got) != 1 || got[0] != "C" {
		t.Errorf("expected add of C, got %v", got)
	}
	if got := result.Plan.Keys(OpRemove); len(got) != 1 || got[0] != "B" {
		t.Errorf("expected removal of B, got %v", got)
	}
	if len(notes.edits) != 1 {
		t.Fatalf("expected 1 note edit, got %d", len(notes.edits))
	}
	if got := notes.edits[0].remove; len(got) != 1 || got[0] != "B" {
		t.Errorf("note edit should delete B, got %v", got)
	}
}

func TestMalformedNoteSurfacesOnRead(t *testing.T) {
	notes := newFakeNoteStore(fakeNote{
		id: "a1", title: "local:myproject",
		fields: []onepassword.Field{
			{Label: "A", Value: "1"},
			{Label: "A", Value: "2"},
		},
	})
	engine := newTestEngine(notes, nil)

	_, err := engine.Pull(target.LocalDir("myproject"), "", t.TempDir())
	if !errors.Is(err, apperrors.ErrMalformedNote) {
		t.Fatalf("expected ErrMalformedNote, got: %v", err)
	}
}
