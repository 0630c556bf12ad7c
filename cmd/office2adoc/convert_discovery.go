package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	office2adoc "github.com/alnah/go-office2adoc"
)

// officeLockPrefix marks the lock files Office leaves next to open documents.
const officeLockPrefix = "~$"

// discoverFiles returns the documents to convert: inputPath itself, or the
// supported files directly inside it when it is a directory. isDir reports
// which case applied.
func discoverFiles(inputPath string) (files []string, isDir bool, err error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("%w: %s", office2adoc.ErrInputNotFound, inputPath)
		}
		return nil, false, err
	}

	if !info.IsDir() {
		if !office2adoc.IsSupported(inputPath) {
			return nil, false, fmt.Errorf("%w: %s (expected %s or %s)",
				office2adoc.ErrUnsupportedInput, inputPath, office2adoc.ExtDOCX, office2adoc.ExtXLSX)
		}
		return []string{inputPath}, false, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return nil, true, err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, officeLockPrefix) || !office2adoc.IsSupported(name) {
			continue
		}
		files = append(files, filepath.Join(inputPath, name))
	}
	if len(files) == 0 {
		return nil, true, fmt.Errorf("%w in %s", ErrNoSupportedFiles, inputPath)
	}
	return files, true, nil
}
