package xlsx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// SheetImages maps a sheet display name to the image file names shown on it,
// in drawing order without duplicates.
type SheetImages map[string][]string

// Add records name under sheet unless it is already there.
func (s SheetImages) Add(sheet, name string) {
	s[sheet] = appendUnique(s[sheet], name)
}

// Remove drops name from every sheet. Sheets left empty are deleted.
func (s SheetImages) Remove(name string) {
	for sheet, names := range s {
		kept := names[:0]
		for _, n := range names {
			if n != name {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(s, sheet)
			continue
		}
		s[sheet] = kept
	}
}

// Rename replaces from with to on every sheet, keeping its position. A
// sheet already listing to keeps a single entry.
func (s SheetImages) Rename(from, to string) {
	for sheet, names := range s {
		renamed := make([]string, 0, len(names))
		for _, n := range names {
			if n == from {
				n = to
			}
			renamed = appendUnique(renamed, n)
		}
		s[sheet] = renamed
	}
}

// SortedSheets returns the sheet names in lexical order.
func (s SheetImages) SortedSheets() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MapSheetImages walks every drawing part of zr and attributes the images it
// embeds to the drawing's sheets. It returns the mapping and the media parts
// referenced, sorted. Drawings without relationships or with malformed XML
// are logged and skipped.
func MapSheetImages(zr *zip.Reader, rels *Relations, logger *zap.Logger) (SheetImages, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files := indexFiles(zr)
	images := SheetImages{}
	seen := map[string]bool{}
	var media []string

	for _, drawing := range sortedNames(files, drawingsDir, ".xml") {
		byID, ok := rels.DrawingMedia[drawing]
		if !ok {
			logger.Warn("drawing has no relationships", zap.String("drawing", drawing))
			continue
		}

		embeds, err := blipEmbeds(files[drawing])
		if err != nil {
			logger.Warn("malformed drawing", zap.String("drawing", drawing), zap.Error(err))
			continue
		}

		sheets := rels.SheetsFor(drawing)
		logger.Debug("processing drawing",
			zap.String("drawing", drawing),
			zap.Strings("sheets", sheets),
			zap.Int("images", len(embeds)),
		)
		for _, id := range embeds {
			part, ok := byID[id]
			if !ok {
				logger.Warn("image relationship not found",
					zap.String("drawing", drawing),
					zap.String("id", id))
				continue
			}
			if !seen[part] {
				seen[part] = true
				media = append(media, part)
			}
			for _, sheet := range sheets {
				images.Add(sheet, path.Base(part))
			}
		}
	}

	sort.Strings(media)
	return images, media
}

// blipEmbeds streams a drawing part and returns the r:embed id of every
// DrawingML blip, in document order.
func blipEmbeds(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var ids []string
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != nsDrawingML || start.Name.Local != "blip" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Space == nsRelationships && attr.Name.Local == "embed" {
				ids = append(ids, attr.Value)
			}
		}
	}
}

// Extractor writes the images of a workbook to disk.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor. A nil logger disables logging.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract copies every image attributed to a sheet of the workbook at
// archivePath into outDir and returns the mapping. Images that fail to write
// are logged and left out of the mapping.
func (e *Extractor) Extract(ctx context.Context, archivePath, outDir string) (SheetImages, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, archivePath, err)
	}
	defer func() { _ = zr.Close() }()

	return e.ExtractFrom(ctx, &zr.Reader, outDir)
}

// ExtractFrom is Extract for an already opened archive.
func (e *Extractor) ExtractFrom(ctx context.Context, zr *zip.Reader, outDir string) (SheetImages, error) {
	rels, err := ReadRelations(zr, e.logger)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("workbook relationships",
		zap.Strings("sheets", rels.Sheets),
		zap.Int("drawings", len(rels.DrawingMedia)),
	)

	images, media := MapSheetImages(zr, rels, e.logger)
	if len(media) == 0 {
		e.logger.Info("no images in workbook")
		return images, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrWriteImage, outDir, err)
	}

	files := indexFiles(zr)
	var total uint64
	written := 0
	for _, part := range media {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := path.Base(part)
		f, ok := files[part]
		if !ok {
			e.logger.Warn("media part missing from archive", zap.String("part", part))
			images.Remove(name)
			continue
		}
		n, err := writeMedia(f, filepath.Join(outDir, name))
		if err != nil {
			e.logger.Error("image extraction failed", zap.String("image", name), zap.Error(err))
			images.Remove(name)
			continue
		}
		total += uint64(n)
		written++
		e.logger.Debug("image extracted", zap.String("image", name), zap.String("size", humanize.Bytes(uint64(n))))
	}

	e.logger.Info("workbook images extracted",
		zap.Int("images", written),
		zap.Int("sheets", len(images)),
		zap.String("size", humanize.Bytes(total)),
		zap.String("dir", outDir),
	)
	return images, nil
}

func writeMedia(f *zip.File, dst string) (int64, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteImage, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteImage, err)
	}
	n, err := io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: %s: %v", ErrWriteImage, filepath.Base(dst), err)
	}
	return n, nil
}
