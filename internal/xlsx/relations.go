package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// XML namespaces used when streaming drawing parts.
const (
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// Well-known part names.
const (
	workbookPart     = "xl/workbook.xml"
	workbookRelsPart = "xl/_rels/workbook.xml.rels"
	worksheetsDir    = "xl/worksheets/"
	worksheetRelsDir = "xl/worksheets/_rels/"
	drawingsDir      = "xl/drawings/"
	drawingRelsDir   = "xl/drawings/_rels/"
)

// unknownSheetPrefix names a sheet no worksheet relationship points at.
const unknownSheetPrefix = "Unknown_Sheet_"

type workbook struct {
	Sheets []workbookSheet `xml:"sheets>sheet"`
}

type workbookSheet struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	RID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type relationships struct {
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// Relations holds the relationship lookup tables of one workbook archive.
// Part names are archive paths such as "xl/drawings/drawing1.xml".
type Relations struct {
	// Sheets lists display names in workbook order.
	Sheets []string
	// SheetNames maps a worksheet part to its display name.
	SheetNames map[string]string
	// DrawingSheets maps a drawing part to the sheets that show it.
	DrawingSheets map[string][]string
	// DrawingMedia maps a drawing part to relationship id -> media part.
	DrawingMedia map[string]map[string]string
}

// ReadRelations builds the lookup tables for zr. Only a missing or malformed
// workbook part is an error; broken worksheet or drawing relationship parts
// are logged and skipped.
func ReadRelations(zr *zip.Reader, logger *zap.Logger) (*Relations, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files := indexFiles(zr)

	wbFile, ok := files[workbookPart]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotWorkbook, workbookPart)
	}
	var wb workbook
	if err := decodePart(wbFile, &wb); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotWorkbook, workbookPart, err)
	}

	rels := &Relations{
		SheetNames:    map[string]string{},
		DrawingSheets: map[string][]string{},
		DrawingMedia:  map[string]map[string]string{},
	}

	wbTargets := map[string]string{}
	if f, ok := files[workbookRelsPart]; ok {
		var r relationships
		if err := decodePart(f, &r); err != nil {
			logger.Warn("malformed workbook relationships", zap.String("part", workbookRelsPart), zap.Error(err))
		}
		for _, rel := range r.Relationships {
			wbTargets[rel.ID] = resolveTarget("xl", rel.Target)
		}
	}
	for _, s := range wb.Sheets {
		part, ok := wbTargets[s.RID]
		if !ok {
			part = worksheetsDir + "sheet" + s.SheetID + ".xml"
		}
		rels.SheetNames[part] = s.Name
		rels.Sheets = append(rels.Sheets, s.Name)
	}

	for _, name := range sortedNames(files, worksheetRelsDir, ".xml.rels") {
		owner := worksheetsDir + strings.TrimSuffix(path.Base(name), ".rels")
		sheet, ok := rels.SheetNames[owner]
		if !ok {
			sheet = unknownSheetPrefix + path.Base(owner)
		}

		var r relationships
		if err := decodePart(files[name], &r); err != nil {
			logger.Warn("malformed worksheet relationships", zap.String("part", name), zap.Error(err))
			continue
		}
		for _, rel := range r.Relationships {
			if !strings.Contains(rel.Type, "drawing") || rel.TargetMode == "External" {
				continue
			}
			drawing := resolveTarget(path.Dir(owner), rel.Target)
			rels.DrawingSheets[drawing] = appendUnique(rels.DrawingSheets[drawing], sheet)
		}
	}

	for _, name := range sortedNames(files, drawingRelsDir, ".xml.rels") {
		owner := drawingsDir + strings.TrimSuffix(path.Base(name), ".rels")

		var r relationships
		if err := decodePart(files[name], &r); err != nil {
			logger.Warn("malformed drawing relationships", zap.String("part", name), zap.Error(err))
			continue
		}
		media := map[string]string{}
		for _, rel := range r.Relationships {
			if !strings.Contains(rel.Target, "media") || rel.TargetMode == "External" {
				continue
			}
			media[rel.ID] = resolveTarget(path.Dir(owner), rel.Target)
		}
		rels.DrawingMedia[owner] = media
	}

	return rels, nil
}

// SheetsFor returns the sheets that display drawing, or a single
// Unknown_Sheet_<drawing> name when no worksheet references it.
func (r *Relations) SheetsFor(drawing string) []string {
	if sheets := r.DrawingSheets[drawing]; len(sheets) > 0 {
		return sheets
	}
	return []string{unknownSheetPrefix + path.Base(drawing)}
}

// resolveTarget resolves a relationship target against the directory of the
// part that owns the relationship. Absolute targets start at the archive root.
func resolveTarget(baseDir, target string) string {
	target = strings.ReplaceAll(target, `\`, "/")
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join(baseDir, target))
}

func indexFiles(zr *zip.Reader) map[string]*zip.File {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return files
}

// sortedNames returns the names directly inside dir that end with suffix.
func sortedNames(files map[string]*zip.File, dir, suffix string) []string {
	var names []string
	for name := range files {
		if !strings.HasPrefix(name, dir) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if strings.Contains(strings.TrimPrefix(name, dir), "/") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decodePart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	return xml.NewDecoder(rc).Decode(v)
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
