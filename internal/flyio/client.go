// Package flyio wraps the Fly.io CLI (fly) for application secrets.
package flyio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/significa/1password-secrets/internal/errors"
)

// Runner executes one fly invocation and returns its stdout.
// stdin carries the env-file body for secrets import; nil otherwise.
type Runner interface {
	Run(stdin []byte, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command("fly", args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return nil, fmt.Errorf("%w: fly %s: %s",
				apperrors.ErrExternalTool, args[0], strings.TrimSpace(string(exitErr.Stderr)))
		case errors.Is(err, exec.ErrNotFound):
			return nil, fmt.Errorf("%w: fly CLI not found in PATH (install flyctl first)", apperrors.ErrExternalTool)
		default:
			return nil, fmt.Errorf("%w: fly %s: %v", apperrors.ErrExternalTool, args[0], err)
		}
	}
	return out, nil
}

// Client talks to Fly.io through the fly CLI.
type Client struct {
	run Runner
}

// NewClient returns a client backed by the fly binary on PATH.
func NewClient() *Client {
	return &Client{run: execRunner{}}
}

// NewClientWithRunner returns a client using a custom runner. Used in tests.
func NewClientWithRunner(r Runner) *Client {
	return &Client{run: r}
}

// ListSecretNames returns the names of the secrets currently set on an app.
// Fly never returns secret values, only names and digests.
func (c *Client) ListSecretNames(app string) ([]string, error) {
	out, err := c.run.Run(nil, "secrets", "list", "--app", app, "--json")
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fly secrets list output: %v", apperrors.ErrExternalTool, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// ImportSecrets stages and deploys the given env-file body as app secrets in
// a single call. Every key present in the body is set unconditionally; fly
// decides whether a new release is needed.
func (c *Client) ImportSecrets(app string, env []byte) error {
	_, err := c.run.Run(env, "secrets", "import", "--app", app)
	return err
}

// UnsetSecrets removes the named secrets from the app.
func (c *Client) UnsetSecrets(app string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	args := append([]string{"secrets", "unset", "--app", app}, keys...)
	_, err := c.run.Run(nil, args...)
	return err
}
