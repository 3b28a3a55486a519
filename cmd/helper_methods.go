package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/significa/1password-secrets/internal/configs"
	apperrors "github.com/significa/1password-secrets/internal/errors"
	"github.com/significa/1password-secrets/internal/flyio"
	"github.com/significa/1password-secrets/internal/onepassword"
	"github.com/significa/1password-secrets/internal/secrets"
	"github.com/significa/1password-secrets/internal/target"
	"github.com/significa/1password-secrets/internal/ui"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in
// verbose or debug mode. Returns the spinner and a function that should be
// deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// confirmAction prompts the user to confirm an operation.
func confirmAction() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil {
		Logger.Errorf("Failed to read response: %v", err)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// spinnerPrompter builds the confirmation prompter handed to the sync engine.
// The spinner is paused while the summary and prompt are on screen; s may be
// nil for commands that run without one.
func spinnerPrompter(s *spinner.Spinner) secrets.Prompter {
	return func(summary string) bool {
		active := s != nil && !verbose && !debug
		if active {
			s.Stop()
		}
		fmt.Println(summary)

		confirmed := assumeYes || confirmAction()
		if active {
			s.Start()
		}
		return confirmed
	}
}

// newEngine wires the real 1Password and fly clients into a sync engine.
func newEngine(s *spinner.Spinner) *secrets.Engine {
	return &secrets.Engine{
		Notes:    onepassword.NewClient(),
		Platform: flyio.NewClient(),
		Prompt:   spinnerPrompter(s),
		Log:      Logger,
	}
}

// detectTarget derives the target for the current working directory from its
// git remote, falling back to the directory name.
func detectTarget() (target.Descriptor, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return target.Descriptor{}, "", fmt.Errorf("failed to determine the working directory: %w", err)
	}

	desc, notice := target.Detect(dir, remoteName)
	if notice != "" {
		Logger.WarnfUser("%s", notice)
	}
	Logger.Debugf("Target pattern: %s", desc.Pattern())
	return desc, dir, nil
}

// effectiveVault resolves the vault to search: the --vault flag wins, then
// the default_vault setting, then all vaults.
func effectiveVault(settings configs.Settings) string {
	if vaultName != "" {
		return vaultName
	}
	return settings.DefaultVault
}

// chooseEditor picks the editor command for interactive edits. The settings
// file wins, then $VISUAL, then $EDITOR, then vi.
func chooseEditor(configured string) string {
	if configured != "" {
		return configured
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}

// editInEditor writes content to a temp file, opens the editor on it, and
// returns the file's contents afterwards.
func editInEditor(content []byte, configured string) ([]byte, error) {
	file, err := os.CreateTemp("", "1password-secrets-*.env")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create a temporary file: %v", apperrors.ErrLocalFile, err)
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.Write(content); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: failed to write %s: %v", apperrors.ErrLocalFile, path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to write %s: %v", apperrors.ErrLocalFile, path, err)
	}

	editor := strings.Fields(chooseEditor(configured))
	Logger.Debugf("Opening %s with %v", path, editor)

	cmd := exec.Command(editor[0], append(editor[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: editor %s failed: %v", apperrors.ErrExternalTool, editor[0], err)
	}

	return os.ReadFile(path)
}
