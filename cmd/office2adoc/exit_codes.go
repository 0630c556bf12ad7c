package main

import (
	"errors"
	"os"
	"os/exec"

	office2adoc "github.com/alnah/go-office2adoc"
	"github.com/alnah/go-office2adoc/internal/config"
	"github.com/alnah/go-office2adoc/internal/logging"
)

// Exit codes for the office2adoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or input type
	ExitIO       = 3 // File not found, permission denied, write failure
	ExitExternal = 4 // pandoc missing or failing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool errors (exit 4). Checked first: a pandoc failure also
	// carries the missing intermediate file.
	if errors.Is(err, office2adoc.ErrPandoc) ||
		errors.Is(err, exec.ErrNotFound) {
		return ExitExternal
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrStemWithDirectory) ||
		errors.Is(err, ErrDuplicateStem) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, office2adoc.ErrUnsupportedInput) ||
		errors.Is(err, office2adoc.ErrEmptyInput) ||
		errors.Is(err, office2adoc.ErrInvalidStem) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoSupportedFiles) ||
		errors.Is(err, office2adoc.ErrInputNotFound) ||
		errors.Is(err, office2adoc.ErrCreateLayout) ||
		errors.Is(err, office2adoc.ErrReadIntermediate) ||
		errors.Is(err, office2adoc.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
