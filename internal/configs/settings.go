package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings holds the user-level configuration. Everything is optional;
// command-line flags override file values.
type Settings struct {
	// DefaultVault is used when no --vault flag is given.
	DefaultVault string `toml:"default_vault"`

	// Editor is the command used by fly edit. Falls back to $VISUAL,
	// $EDITOR, then vi.
	Editor string `toml:"editor"`
}

// Dir returns the configuration directory for this tool.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate the user config directory: %w", err)
	}
	return filepath.Join(configDir, "1password-secrets"), nil
}

// Path returns the settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the settings file. A missing file is not an error and yields
// zero settings.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Settings{}, err
	}

	var settings Settings
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return settings, nil
}

// Save writes the settings file, creating the config directory if needed.
func Save(settings Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(settings)
}
