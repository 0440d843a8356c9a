package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readWorkbook loads the first sheet of an .xlsx file and returns the header
// row and the data rows as formatted cell strings.
func readWorkbook(path string) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// rowEmpty reports whether every cell of the row is blank.
func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellAt tolerates short rows; excelize trims trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
