package supervisor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// HomeDirFunc returns the home directory used to expand "~".
type HomeDirFunc func() (string, error)

// ResolvePath expands a leading "~" and falls back to def if raw is
// blank.
func ResolvePath(raw, def string, home HomeDirFunc) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		path = def
	}

	path, err := expandHome(path, home)
	if err != nil {
		return "", err
	}

	return filepath.Clean(path), nil
}

func expandHome(path string, home HomeDirFunc) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	dir, err := home()
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}

	return filepath.Join(dir, strings.TrimPrefix(path, "~")), nil
}

// ValidateExecutable checks that path names an existing executable file.
// The returned error is a *PathError.
func ValidateExecutable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &PathError{Path: path, Err: ErrNotFound}
	} else if err != nil {
		return &PathError{Path: path, Err: err}
	}

	if info.IsDir() || !isExecutable(path, info) {
		return &PathError{Path: path, Err: ErrNotExecutable}
	}

	return nil
}
