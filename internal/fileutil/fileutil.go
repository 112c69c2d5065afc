// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrInvalidExtension = errors.New("unexpected file extension")
)

// FilePermissions is used for every file the tool writes (rw-r--r--).
const FilePermissions = 0o644

// WriteFileAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	tmpPath, err := StageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// StageFile writes data to a hidden sibling of path that keeps path's
// extension and returns its name. The caller renames it into place or
// removes it.
func StageFile(path string, data []byte) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	base := filepath.Base(path)
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+base+".*"+filepath.Ext(base))
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, FilePermissions); err != nil {
		cleanup()
		return "", fmt.Errorf("setting permissions: %w", err)
	}
	return tmpPath, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "report" -> false (name)
//   - "./report.yaml" -> true (relative path)
//   - "C:\configs\report.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// RequireExtension checks that path ends with ext (case-insensitive).
func RequireExtension(path, ext string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if !strings.EqualFold(filepath.Ext(path), ext) {
		return fmt.Errorf("%w: %q (want %s)", ErrInvalidExtension, path, ext)
	}
	return nil
}

// DerivePath replaces the extension of input with suffix, placing the result
// in outDir when it is non-empty.
//
//	DerivePath("nb/eval.ipynb", "_collapsible.html", "") -> "nb/eval_collapsible.html"
//	DerivePath("nb/eval.ipynb", "_custom.html", "out")   -> "out/eval_custom.html"
func DerivePath(input, suffix, outDir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + suffix
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}
