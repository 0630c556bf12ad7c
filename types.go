package office2adoc

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-office2adoc/internal/fileutil"
)

// Kind is the type of an input document.
type Kind int

// Input kinds.
const (
	KindUnknown Kind = iota
	KindDOCX
	KindXLSX
)

// Input extensions.
const (
	ExtDOCX = ".docx"
	ExtXLSX = ".xlsx"
)

// String returns the lower-case format name.
func (k Kind) String() string {
	switch k {
	case KindDOCX:
		return "docx"
	case KindXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// DetectKind returns the kind of path from its extension, ignoring case.
func DetectKind(path string) Kind {
	switch {
	case fileutil.HasExtension(path, ExtDOCX):
		return KindDOCX
	case fileutil.HasExtension(path, ExtXLSX):
		return KindXLSX
	default:
		return KindUnknown
	}
}

// IsSupported reports whether path has a convertible extension.
func IsSupported(path string) bool {
	return DetectKind(path) != KindUnknown
}

// Input is one document to convert.
type Input struct {
	Path string // DOCX or XLSX file
	Stem string // output name; defaults to the file name without extension
}

// OutputStem returns the name of the output directory and file for in.
func (in Input) OutputStem() string {
	if s := strings.TrimSpace(in.Stem); s != "" {
		return s
	}
	return fileutil.Stem(filepath.Clean(in.Path))
}

// Result describes a finished conversion.
type Result struct {
	Kind   Kind
	Layout Layout
	Output string // path of the final .adoc file

	// Images recoded to PNG and images that failed to recode.
	ImagesRecoded int
	ImagesFailed  int

	// XLSX only.
	Sheets int
	Images int

	Elapsed time.Duration
}
