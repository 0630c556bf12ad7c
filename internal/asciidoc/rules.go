package asciidoc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// ReviewMarker is the comment line placed after image directives when
// review markers are enabled.
const ReviewMarker = "// REVIEW: check figure caption and placement"

// Precompiled patterns. RE2 is used wherever it suffices; regexp2 only where
// a rule needs lookbehind.
var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Boilerplate, applied in this order.
	boilerplatePatterns = []struct {
		re   *regexp.Regexp
		repl string
	}{
		// Table of contents up to the blank line before the next section.
		{regexp.MustCompile(`(?ms)^Table of Contents[ \t]*$.*?(\n\n== )`), "$1"},
		// Caption scaffolding around table captions.
		{regexp.MustCompile(`\[#_Toc\d* \.anchor\]####Table \d*:?\s?`), ""},
		{regexp.MustCompile(`\[#_Ref\d* \.anchor\]####Table \d*:?\s?`), ""},
		// Remaining bookmark anchors.
		{regexp.MustCompile(`\[#_Ref\d* \.anchor\]#{2,4}`), ""},
		{regexp.MustCompile(`\[#_Toc\d* \.anchor\]#{2,4}`), ""},
		// Placeholder for whitespace-only cells.
		{regexp.MustCompile(`\{empty\}`), ""},
	}

	sourceBrackets = regexp.MustCompile(`\[(SOURCE:.*?)\]`)

	imageTarget = regexp.MustCompile(`(image::?)([^\s\[]+)\[`)

	imageDirective = regexp.MustCompile(`image::?[^\s\[]+\[`)

	// An unescaped << ... >> on a single line. A preceding '<' is treated
	// like an escape so that runs of '<' stay stable across repeated runs.
	angleBrackets = regexp2.MustCompile(`(?<![\\<])<<(.*?)>>`, regexp2.None)

	// Note and example callouts, to end of line. A match directly below a
	// ==== delimiter is already wrapped.
	notePattern = regexp2.MustCompile(
		`(?<!====\n)(?:(?<!foot)(?<!\[)Note:.*|Note[ \t]+\d+.*|EXAMPLE[ \t]+\d+:.*|Please note:.*)`,
		regexp2.None,
	)
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// StripBoilerplate removes the table of contents block, pandoc's anchor
// scaffolding around table captions and bookmarks, and {empty} markers.
func StripBoilerplate(content string) string {
	for _, p := range boilerplatePatterns {
		content = p.re.ReplaceAllString(content, p.repl)
	}
	return content
}

// EscapeAngleBrackets prefixes every unescaped <<...>> with a backslash so
// AsciiDoc does not read it as a cross reference.
func EscapeAngleBrackets(content string) string {
	return replace2(angleBrackets, content, `\<<$1>>`)
}

// RecolorNotes wraps Note, EXAMPLE and "Please note" callouts in ====
// example block delimiters. Each match is replaced at its own position in a
// single scan, so overlapping patterns on one line are wrapped once.
// Matches run from the label to end of line without regard to inline
// markup: a bold "*Note:* text" leaves its opening "*" above the block and
// the closing one inside it. Every occurrence is wrapped, verbatim repeats
// included.
func RecolorNotes(content string) string {
	out, err := notePattern.ReplaceFunc(content, func(m regexp2.Match) string {
		return "\n====\n" + strings.TrimSpace(m.String()) + "\n====\n"
	}, -1, -1)
	if err != nil {
		return content
	}
	return out
}

// EscapeSourceBrackets replaces the brackets of [SOURCE:...] with numeric
// character references.
func EscapeSourceBrackets(content string) string {
	return sourceBrackets.ReplaceAllString(content, "&#91;$1&#93;")
}

// StripDoublePlus removes every "++" left over from inline passthroughs.
func StripDoublePlus(content string) string {
	return strings.ReplaceAll(content, "++", "")
}

// NormalizeImageSuffixes rewrites every legacy image extension to target.
// Extensions match case-insensitively and only as whole words. An empty
// legacy list leaves content unchanged.
func NormalizeImageSuffixes(content string, legacy []string, target string) string {
	re := suffixPattern(legacy)
	if re == nil {
		return content
	}
	return re.ReplaceAllLiteralString(content, target)
}

// suffixPattern builds `(?i)\.(ext1|ext2)\b` with longer extensions first.
func suffixPattern(legacy []string) *regexp.Regexp {
	exts := make([]string, 0, len(legacy))
	for _, e := range legacy {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e != "" {
			exts = append(exts, regexp.QuoteMeta(e))
		}
	}
	if len(exts) == 0 {
		return nil
	}
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })
	return regexp.MustCompile(`(?i)\.(?:` + strings.Join(exts, "|") + `)\b`)
}

// FixImagePaths makes image targets relative to the output document, which
// lives inside the <stem> directory. Backslashes become forward slashes and
// a leading "./" or "<stem>/" is dropped.
func FixImagePaths(content, stem string) string {
	prefix := ""
	if stem != "" {
		prefix = strings.ReplaceAll(stem, `\`, "/") + "/"
	}
	return imageTarget.ReplaceAllStringFunc(content, func(m string) string {
		sub := imageTarget.FindStringSubmatch(m)
		target := strings.ReplaceAll(sub[2], `\`, "/")
		target = strings.TrimPrefix(target, "./")
		if prefix != "" && strings.HasPrefix(target, prefix) && len(target) > len(prefix) {
			target = target[len(prefix):]
		}
		return sub[1] + target + "["
	})
}

// InsertReviewMarkers adds ReviewMarker on its own line after every line that
// holds an image directive. Lines already followed by the marker are skipped.
func InsertReviewMarkers(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		out = append(out, line)
		if !imageDirective.MatchString(line) {
			continue
		}
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == ReviewMarker {
			continue
		}
		out = append(out, ReviewMarker)
	}
	return strings.Join(out, "\n")
}

// replace2 runs a regexp2 replacement and falls back to the input on error.
// regexp2 only fails on match timeouts, which are not configured here.
func replace2(re *regexp2.Regexp, content, repl string) string {
	out, err := re.Replace(content, repl, -1, -1)
	if err != nil {
		return content
	}
	return out
}
