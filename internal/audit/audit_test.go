package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLog_CreatesFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	Log(Entry{
		Operation: "pull",
		Target:    "repo:acme/api",
		File:      ".env",
	})

	logPath, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath: %v", err)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatalf("audit log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	Log(Entry{Operation: "pull", Target: "repo:acme/api"})
	Log(Entry{Operation: "push", Target: "repo:acme/api", UpdatedCount: 2})
	Log(Entry{Operation: "fly-import", App: "acme-api"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Operation != "push" || entries[1].UpdatedCount != 2 {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].App != "acme-api" {
		t.Errorf("unexpected third entry: %+v", entries[2])
	}
}

func TestLog_SetsTimestamp(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	Log(Entry{Operation: "create"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Timestamp == "" {
		t.Error("expected a timestamp to be set")
	}
	if !strings.HasSuffix(entries[0].Timestamp, "Z") {
		t.Errorf("expected a UTC timestamp, got %q", entries[0].Timestamp)
	}
}

func TestReadEntries_MissingLog(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2024-06-01T12:30:00.000000Z","op":"pull"}
not json
{"ts":"2024-06-01T12:31:00.000000Z","op":"push"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Operation != "pull" || entries[1].Operation != "push" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestLogPath_RespectsDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	logPath, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath: %v", err)
	}
	want := filepath.Join(dataHome, "1password-secrets", "audit.jsonl")
	if logPath != want {
		t.Errorf("LogPath = %q, want %q", logPath, want)
	}
}
