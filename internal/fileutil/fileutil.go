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
	ErrInvalidStem  = errors.New("invalid output name")
	ErrNotDirectory = errors.New("not a directory")
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Stem returns the base name of path without its extension.
//
// Examples:
//   - "docs/report.docx" -> "report"
//   - "archive.tar.gz" -> "archive.tar"
//   - "README" -> "README"
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasExtension reports whether path ends with one of exts, ignoring case.
// exts include the leading dot.
func HasExtension(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// ValidateStem checks that stem can name the per-document output directory
// and files: a single path element, not "." or "..", without null bytes.
func ValidateStem(stem string) error {
	switch {
	case strings.TrimSpace(stem) == "":
		return fmt.Errorf("%w: empty", ErrInvalidStem)
	case stem == "." || stem == "..":
		return fmt.Errorf("%w: %q", ErrInvalidStem, stem)
	case strings.ContainsAny(stem, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator or null byte", ErrInvalidStem, stem)
	}
	return nil
}

// WriteFile writes content to path through a temporary file in the same
// directory, so readers never see a partial file.
func WriteFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// CheckWritableDir verifies that dir exists, is a directory, and accepts new
// files.
func CheckWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	f, err := os.CreateTemp(dir, ".office2adoc-write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
