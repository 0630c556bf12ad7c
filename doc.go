// Package office2adoc converts office documents (DOCX, XLSX) to AsciiDoc.
//
// # Quick Start
//
//	conv := office2adoc.NewConverter(
//	    office2adoc.WithOutputDir("out"),
//	    office2adoc.WithLogger(logger),
//	)
//
//	result, err := conv.Convert(ctx, office2adoc.Input{Path: "report.docx"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output) // out/report/report.adoc
//
// # DOCX
//
// Word documents are converted by pandoc, then repaired by the AsciiDoc
// post-processing pipeline (see internal/asciidoc):
//
//  1. pandoc -f docx -t asciidoc writes <stem>/<stem>_no_format.adoc and
//     extracts media into <stem>/extracted_media/
//  2. Legacy images (EMF, WMF, BMP, TIFF) in the media directory are
//     recoded to PNG
//  3. The pipeline strips converter boilerplate, escapes markup, links the
//     bibliography and restructures figure captions
//  4. The result is written to <stem>/<stem>.adoc and the intermediate file
//     is removed
//
// A pandoc failure does not stop the run: it is logged, and the missing
// intermediate file is then reported as ErrReadIntermediate.
//
// # XLSX
//
// Workbooks are read directly. Embedded images are mapped to the sheets
// that display them and written to <stem>/extracted_images/; every sheet is
// rendered as a section holding its images and a table of its cells.
//
// # Layout
//
// For stem S under output root R:
//
//	R/S/S.adoc              final document
//	R/S/S_no_format.adoc    pandoc output (DOCX, removed unless kept)
//	R/S/extracted_media/    DOCX media
//	R/S/extracted_images/   XLSX images
package office2adoc
