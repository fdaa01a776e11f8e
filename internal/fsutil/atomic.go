// Package fsutil holds the filesystem helpers shared by the filesystem
// article repository and blob store.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir and any missing parents. It is safe to call
// concurrently from several processes.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// tempPrefix starts the name of every in-flight temp file. The temp name has
// a fixed length so any name that fits the filesystem can be written.
const tempPrefix = ".tmp-"

// WriteFile writes the contents of reader to dir/name through a temporary
// file in dir that is renamed into place, so readers see either the old
// file or the complete new one.
func WriteFile(dir, name string, reader io.Reader) error {
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// IsTemp reports whether a directory entry name belongs to an in-flight
// WriteFile.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}
