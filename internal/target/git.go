package target

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// remoteURLPattern matches both URL-style (https://host/owner/repo.git) and
// scp-style (git@host:owner/repo.git) remotes. The repository path after the
// owner may itself contain slashes (gitlab subgroups).
var remoteURLPattern = regexp.MustCompile(`^(\w+)(://|@)([^/:]+)[/:]([^/:]+)/(.+)\.git$`)

// ParseRemoteURL extracts a repo descriptor from a git remote URL.
// Returns false when the URL does not follow a recognizable shape.
func ParseRemoteURL(url string) (Descriptor, bool) {
	m := remoteURLPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return Descriptor{}, false
	}
	return Repo(m[4], m[5]), true
}

// Detect determines the sync target for dir. If dir is inside a git
// repository with the named remote configured, the target is the repository
// identity from the remote URL. Otherwise it falls back to the directory's
// base name and returns a non-empty notice explaining why.
func Detect(dir, remote string) (Descriptor, string) {
	fallback := LocalDir(filepath.Base(dir))

	cmd := exec.Command("git", "config", "--get", "remote."+remote+".url")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
			return fallback, fmt.Sprintf("either not in a git repository or remote %q is not set", remote)
		case errors.Is(err, exec.ErrNotFound):
			return fallback, "git not found in PATH"
		default:
			return fallback, fmt.Sprintf("failed to read the git remote %q url", remote)
		}
	}

	desc, ok := ParseRemoteURL(string(out))
	if !ok {
		return fallback, fmt.Sprintf("failed to parse the git remote %q url", remote)
	}
	return desc, ""
}
