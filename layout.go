package office2adoc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-office2adoc/internal/config"
)

// intermediateSuffix marks the raw pandoc output next to the final file.
const intermediateSuffix = "_no_format"

// Layout names the files of one converted document.
type Layout struct {
	Root      string // output root; empty means the current directory
	Stem      string
	MediaDir  string // DOCX media directory name
	ImagesDir string // XLSX images directory name
}

// NewLayout returns the layout for stem under root with the default
// directory names.
func NewLayout(root, stem string) Layout {
	return Layout{
		Root:      root,
		Stem:      stem,
		MediaDir:  config.DefaultMediaDir,
		ImagesDir: config.DefaultImagesDir,
	}
}

// Dir returns the document directory, Root/Stem.
func (l Layout) Dir() string {
	return filepath.Join(l.Root, l.Stem)
}

// Output returns Root/Stem/Stem.adoc.
func (l Layout) Output() string {
	return filepath.Join(l.Dir(), l.Stem+".adoc")
}

// Intermediate returns Root/Stem/Stem_no_format.adoc.
func (l Layout) Intermediate() string {
	return filepath.Join(l.Root, l.relIntermediate())
}

// Media returns the DOCX media directory.
func (l Layout) Media() string {
	return filepath.Join(l.Root, l.relMedia())
}

// Images returns the XLSX images directory.
func (l Layout) Images() string {
	return filepath.Join(l.Dir(), l.ImagesDir)
}

// relIntermediate and relMedia are relative to Root. Pandoc runs in Root and
// writes these paths into image references, which the pipeline then makes
// relative to the document directory.
func (l Layout) relIntermediate() string {
	return filepath.Join(l.Stem, l.Stem+intermediateSuffix+".adoc")
}

func (l Layout) relMedia() string {
	return filepath.Join(l.Stem, l.MediaDir)
}

// Create makes the document directory.
func (l Layout) Create() error {
	if err := os.MkdirAll(l.Dir(), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCreateLayout, l.Dir(), err)
	}
	return nil
}
