package office2adoc

import (
	"errors"

	"github.com/alnah/go-office2adoc/internal/fileutil"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput       = errors.New("input path cannot be empty")
	ErrInputNotFound    = errors.New("input file not found")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrInvalidStem      = fileutil.ErrInvalidStem

	// External tool errors.
	ErrPandoc = errors.New("pandoc conversion failed")

	// Output errors.
	ErrCreateLayout     = errors.New("failed to create output directory")
	ErrReadIntermediate = errors.New("failed to read intermediate AsciiDoc")
	ErrWriteOutput      = errors.New("failed to write AsciiDoc output")

	// Spreadsheet errors.
	ErrSpreadsheet = errors.New("spreadsheet conversion failed")
)
