package asciidoc

import (
	"regexp"
	"strings"
)

var (
	// An image directive, up to two blank lines, then a line starting with
	// "Figure". Groups: 1 target, 2 attribute list, 3 caption line.
	figureWithCaption = regexp.MustCompile(
		`image::?([^\s\[]+)\[([^\]\n]*)\][ \t]*\n(?:[ \t]*\n){0,2}[ \t]*(Figure[^\n]*)\n`,
	)

	// Label pandoc copies from Word's caption field; AsciiDoc numbers
	// figures itself.
	figureLabel = regexp.MustCompile(`^Figure[ \t]+\d+[ \t]*:?`)
)

// RestructureCaptions turns an image followed by a "Figure N: text" caption
// line into a block image with the caption as its block title:
//
//	image:foo.png[alt]
//
//	Figure 3: A widget
//
// becomes
//
//	.A widget
//	image::foo.png[alt]
//
// Images without an adjacent caption are left as they are.
func RestructureCaptions(content string) string {
	matches := figureWithCaption.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	prev := 0
	for _, m := range matches {
		b.WriteString(content[prev:m[0]])
		if m[0] > 0 && content[m[0]-1] != '\n' {
			b.WriteByte('\n')
		}

		target := content[m[2]:m[3]]
		attrs := content[m[4]:m[5]]
		caption := strings.TrimSpace(figureLabel.ReplaceAllString(content[m[6]:m[7]], ""))

		if caption != "" {
			b.WriteString("." + caption + "\n")
		}
		b.WriteString("image::" + target + "[" + attrs + "]\n")
		prev = m[1]
	}
	b.WriteString(content[prev:])
	return b.String()
}
