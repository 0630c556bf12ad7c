package xlsx

import (
	"path"
	"strings"
)

// RenderWorkbook renders sheets as an AsciiDoc document titled title. Each
// sheet becomes a section with its images followed by a table whose first
// row is the header. Images attributed to names that are not sheets are
// rendered in extra sections at the end. imageDir is the image path prefix,
// relative to the document.
func RenderWorkbook(title string, sheets []SheetData, images SheetImages, imageDir string) string {
	var b strings.Builder
	b.WriteString("= " + title + "\n\n")

	rendered := map[string]bool{}
	for _, s := range sheets {
		rendered[s.Name] = true
		writeSection(&b, s.Name, images[s.Name], imageDir)
		writeTable(&b, s.Rows)
	}
	for _, name := range images.SortedSheets() {
		if !rendered[name] {
			writeSection(&b, name, images[name], imageDir)
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, name string, images []string, imageDir string) {
	b.WriteString("== " + name + "\n\n")
	for _, img := range images {
		target := img
		if imageDir != "" {
			target = path.Join(imageDir, img)
		}
		b.WriteString("image::" + target + "[" + img + "]\n\n")
	}
}

func writeTable(b *strings.Builder, rows [][]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if width == 0 {
		return
	}

	b.WriteString("[%header%autowidth]\n|===\n")
	for i, r := range rows {
		for c := 0; c < width; c++ {
			cell := ""
			if c < len(r) {
				cell = escapeCell(r[c])
			}
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("|" + cell)
		}
		b.WriteByte('\n')
		if i == 0 && len(rows) > 1 {
			b.WriteByte('\n')
		}
	}
	b.WriteString("|===\n\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
