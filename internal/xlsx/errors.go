package xlsx

import "errors"

// Sentinel errors for workbook processing.
var (
	ErrOpenArchive = errors.New("opening workbook archive")
	ErrNotWorkbook = errors.New("not an Excel workbook")
	ErrReadSheets  = errors.New("reading sheet data")
	ErrWriteImage  = errors.New("writing extracted image")
)
