package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Abs expands a leading ~ and makes path absolute. Paths that cannot be resolved
// are returned unchanged.
func Abs(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return expanded
	}

	return abs
}

func CreateDirectoryIfNotExists(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("'%s' exists and is not a directory", path)
		}
		return nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return os.MkdirAll(path, 0o755)
}
