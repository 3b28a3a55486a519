package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/significa/1password-secrets/internal/errors"
)

// DefaultEnvFileName is the local file used when a note carries no
// file_name metadata.
const DefaultEnvFileName = ".env"

// ReadSecretsFile reads a local env file. When the file does not exist it
// returns (nil, false, nil) if required is false, and ErrLocalFile otherwise.
func ReadSecretsFile(path string, required bool) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !required {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("%w: env file %q not found", apperrors.ErrLocalFile, path)
		}
		return nil, false, fmt.Errorf("%w: failed to read %q: %v", apperrors.ErrLocalFile, path, err)
	}
	return data, true, nil
}

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename, so an interrupted write never leaves a
// partially written secrets file behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".env-sync-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file in %q: %v", apperrors.ErrLocalFile, dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to write %q: %v", apperrors.ErrLocalFile, path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to set permissions on %q: %v", apperrors.ErrLocalFile, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write %q: %v", apperrors.ErrLocalFile, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace %q: %v", apperrors.ErrLocalFile, path, err)
	}
	return nil
}
