package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// InstallFS copies the tree below root in fsys into targetDirectory.
func InstallFS(fsys fs.FS, root string, targetDirectory string) error {
	return installFSDirectory(fsys, root, targetDirectory)
}

func installFSDirectory(fsys fs.FS, embedDirectory string, targetDirectory string) error {
	if err := CreateDirectoryIfNotExists(targetDirectory); err != nil {
		return fmt.Errorf("creating directory '%s' failed: %w", targetDirectory, err)
	}

	entries, err := fs.ReadDir(fsys, embedDirectory)
	if err != nil {
		return fmt.Errorf("could not read embedded FS: %w", err)
	}

	for _, entry := range entries {
		// Embedded paths always use forward slashes.
		embedPath := path.Join(embedDirectory, entry.Name())
		targetPath := filepath.Join(targetDirectory, entry.Name())

		if entry.IsDir() {
			if err = installFSDirectory(fsys, embedPath, targetPath); err != nil {
				return fmt.Errorf("could not install subdirectory: %w", err)
			}
			continue
		}

		log.Debug("installing", "file", embedPath, "target", targetPath)

		content, err := fs.ReadFile(fsys, embedPath)
		if err != nil {
			return fmt.Errorf("could not read embedded file '%s': %w", embedPath, err)
		}

		if err := os.WriteFile(targetPath, content, 0o644); err != nil {
			return fmt.Errorf("could not write file '%s': %w", targetPath, err)
		}
	}

	return nil
}
