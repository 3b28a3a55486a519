package cmd

import (
	"testing"

	"github.com/significa/1password-secrets/internal/audit"
)

func TestChooseEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	if got := chooseEditor("nano"); got != "nano" {
		t.Errorf("configured editor should win, got %q", got)
	}

	t.Setenv("EDITOR", "vim")
	if got := chooseEditor(""); got != "vim" {
		t.Errorf("expected $EDITOR fallback, got %q", got)
	}

	t.Setenv("VISUAL", "code --wait")
	if got := chooseEditor(""); got != "code --wait" {
		t.Errorf("$VISUAL should win over $EDITOR, got %q", got)
	}

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := chooseEditor(""); got != "vi" {
		t.Errorf("expected vi fallback, got %q", got)
	}
}

func TestFormatLogDetails(t *testing.T) {
	entry := audit.Entry{
		Target:       "repo:acme/api",
		File:         ".env",
		AddedCount:   2,
		RemovedCount: 1,
	}
	got := formatLogDetails(entry)
	want := "repo:acme/api  file=.env  +2  -1"
	if got != want {
		t.Errorf("formatLogDetails = %q, want %q", got, want)
	}

	if got := formatLogDetails(audit.Entry{App: "acme-api"}); got != "app=acme-api" {
		t.Errorf("formatLogDetails = %q, want %q", got, "app=acme-api")
	}
}
