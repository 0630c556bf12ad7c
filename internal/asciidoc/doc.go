// Package asciidoc repairs the AsciiDoc that pandoc emits for DOCX input.
//
// The package is a set of pure text rules plus a Pipeline that applies them
// in a fixed order:
//   - boilerplate removal (table of contents, caption anchors, {empty})
//   - image suffix normalization to the recoded raster extension
//   - escaping of << >> sequences
//   - wrapping of Note/EXAMPLE callouts in example blocks
//   - bibliography anchors, then links from in-text citations
//   - figure captions moved above block image directives
//   - escaping of [SOURCE:...] brackets
//   - removal of stray ++ passthrough markers
//   - image paths made relative to the output document
//   - optional review comments next to every image
//
// Rules operate on the whole document as a flat string. They are tuned to
// pandoc's output and are not a general AsciiDoc normalizer.
package asciidoc
