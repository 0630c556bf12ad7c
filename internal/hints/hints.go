// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"runtime"
	"strings"

	"github.com/alnah/go-office2adoc/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is runtime.GOOS, replaceable in tests.
var GOOS = runtime.GOOS

// ForPandocNotFound returns hints for a pandoc binary missing from PATH.
func ForPandocNotFound() string {
	hints := []string{installHint("pandoc")}
	hints = append(hints, "or set pandoc.binary / OFFICE2ADOC_PANDOC to its path")
	return formatHints(hints)
}

// ForVectorTool returns hints when EMF/WMF images could not be converted.
func ForVectorTool() string {
	return formatHints([]string{
		"EMF/WMF images need Inkscape, LibreOffice or ImageMagick",
		installHint("inkscape"),
		"or set images.vectorTool / OFFICE2ADOC_VECTOR_TOOL",
	})
}

// ForTimeout returns a hint about increasing the pandoc timeout.
func ForTimeout() string {
	return format("for large documents, raise --timeout or pandoc.timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath2slash(p), "/office2adoc/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable, or use --output-dir")
}

// ForUnsupportedInput returns hints for inputs that are neither DOCX nor XLSX.
func ForUnsupportedInput() string {
	return format("supported inputs: .docx and .xlsx files, or a directory holding them")
}

// installHint suggests the package manager command for the current platform.
func installHint(pkg string) string {
	switch {
	case IsInContainer():
		return "install it in the image: apt-get install -y " + pkg
	case GOOS == "darwin":
		return "install it: brew install " + pkg
	case GOOS == "windows":
		return "install it: winget install " + pkg
	default:
		return "install it with your package manager, e.g. apt-get install " + pkg
	}
}

func filepath2slash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
