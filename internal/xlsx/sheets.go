package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetData is the cell text of one sheet, row by row.
type SheetData struct {
	Name string
	Rows [][]string
}

// ReadSheets returns the formatted cell values of every sheet in workbook
// order.
func ReadSheets(path string) ([]SheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenArchive, path, err)
	}
	defer func() { _ = f.Close() }()

	var sheets []SheetData
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrReadSheets, name, err)
		}
		sheets = append(sheets, SheetData{Name: name, Rows: rows})
	}
	return sheets, nil
}
