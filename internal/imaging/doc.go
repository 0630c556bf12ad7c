// Package imaging converts legacy image formats that browsers and AsciiDoc
// renderers cannot display into PNG.
//
// Raster formats (BMP, TIFF) are decoded and re-encoded in-process. Vector
// metafiles (EMF, WMF) are handed to an external tool: Inkscape, LibreOffice
// or ImageMagick.
package imaging
