// Package xlsx extracts embedded images from Excel workbooks, attributes them
// to the sheets that display them, and renders sheets as AsciiDoc tables.
//
// Attribution follows the relationship chain inside the archive:
//
//	workbook.xml sheet -> worksheet part -> drawing part -> media part
//
// Each link lives in a different _rels part. ReadRelations reads all of them
// once into lookup tables; MapSheetImages then walks the drawings.
package xlsx
