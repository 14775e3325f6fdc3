package assets

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Flatten copies every file below assetsDir into flatDir, prefixing each
// name with its parent directory name. It returns the number of copied files.
func Flatten(assetsDir, flatDir string) (int, error) {
	if err := os.MkdirAll(flatDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", flatDir, err)
	}

	absFlat, err := filepath.Abs(flatDir)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s: %w", flatDir, err)
	}

	copied := 0
	err = filepath.WalkDir(assetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == absFlat {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		prefix := filepath.Base(filepath.Dir(path))
		dest := filepath.Join(flatDir, prefix+"_"+d.Name())

		slog.Debug("Copy asset", "from", path, "to", dest)
		if err := copyFile(path, dest); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to flatten %s: %w", assetsDir, err)
	}

	return copied, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
