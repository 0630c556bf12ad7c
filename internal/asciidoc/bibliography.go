package asciidoc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// BibliographyHeading marks the start of the bibliography section.
const BibliographyHeading = "== Bibliography"

var bibEntry = regexp.MustCompile(`(?m)^\[(\d+)\](.+)`)

// Bibliography holds the numbered entries found below BibliographyHeading.
type Bibliography struct {
	Entries map[string]string // key -> text after "[key]"
	Keys    []string          // keys in order of first appearance
}

// AnchorID returns the anchor id used for key.
func AnchorID(key string) string {
	return "bib" + key
}

// anchorLine returns the block anchor line placed above an entry.
func anchorLine(key string) string {
	return "[#" + AnchorID(key) + "]"
}

// AnchorBibliography inserts a "[#bib<key>]" line above each numbered entry
// in the bibliography section. found is false when the document has no
// bibliography heading, in which case content is returned unchanged.
//
// When a key appears more than once the last entry wins: its text is the one
// recorded and the anchor is placed above that line only.
func AnchorBibliography(content string) (bib Bibliography, out string, found bool) {
	bib.Entries = map[string]string{}

	start := strings.Index(content, BibliographyHeading)
	if start == -1 {
		return bib, content, false
	}
	section := content[start:]

	// Line start offset (within section) of each key's last entry.
	lineStart := map[string]int{}
	for _, m := range bibEntry.FindAllStringSubmatchIndex(section, -1) {
		key := section[m[2]:m[3]]
		if _, seen := bib.Entries[key]; !seen {
			bib.Keys = append(bib.Keys, key)
		}
		bib.Entries[key] = section[m[4]:m[5]]
		lineStart[key] = m[0]
	}

	offsets := make([]int, 0, len(lineStart))
	keyAt := make(map[int]string, len(lineStart))
	for key, off := range lineStart {
		if hasAnchorAbove(section, off, key) {
			continue
		}
		offsets = append(offsets, off)
		keyAt[off] = key
	}
	sort.Ints(offsets)

	var b strings.Builder
	b.Grow(len(content) + len(offsets)*12)
	b.WriteString(content[:start])
	prev := 0
	for _, off := range offsets {
		b.WriteString(section[prev:off])
		b.WriteString(anchorLine(keyAt[off]))
		b.WriteByte('\n')
		prev = off
	}
	b.WriteString(section[prev:])

	return bib, b.String(), true
}

// hasAnchorAbove reports whether the line before off is key's anchor line.
func hasAnchorAbove(section string, off int, key string) bool {
	return strings.HasSuffix(section[:off], anchorLine(key)+"\n")
}

// LinkBibliography turns every in-text citation "[key]" into a link to the
// key's anchor. The entry line directly below its own anchor is left alone.
// Only keys passed in are linked.
func LinkBibliography(content string, keys []string) string {
	for _, key := range keys {
		esc := regexp2.Escape(key)
		re := regexp2.MustCompile(`(?<!\[#bib`+esc+`\]\n)\[`+esc+`\]`, regexp2.None)
		content = replace2(re, content, "link:#"+AnchorID(key)+`[[`+key+`\]]`)
	}
	return content
}
