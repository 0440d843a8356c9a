package common

import (
	"fmt"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// CellAt returns the cell at index idx of a spreadsheet row, tolerating
// short rows (trailing empty cells are not round-tripped by the API).
func CellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
