package dtos

// StatusRow is one unit row of the booking spreadsheet. RowIndex is the
// 1-based sheet row, kept so status writes can target a single cell instead
// of rewriting the grid.
type StatusRow struct {
	RowIndex   int    `json:"rowIndex"`
	BlockName  string `json:"blockName"`
	UnitNumber string `json:"unitNumber"`
	Floor      int    `json:"floor"`
	Status     string `json:"status"`
}

// StatusGrid is the full per-unit status view for one complex, served from
// the time-boxed live spreadsheet cache.
type StatusGrid struct {
	ComplexSlug string      `json:"complexSlug"`
	SheetName   string      `json:"sheetName"`
	Rows        []StatusRow `json:"rows"`
}

// ImportResult reports one completed spreadsheet import.
type ImportResult struct {
	Shape       string `json:"shape"`
	ComplexSlug string `json:"complexSlug"`
	RowsWritten int    `json:"rowsWritten"`
}

// PlanImage is the response body for a resolved floor-plan artifact.
type PlanImage struct {
	Path string `json:"path"`
}

// WarmupPair is one (block, area) pair for bulk plan warm-up.
type WarmupPair struct {
	BlockName string `json:"blockName"`
	Area      string `json:"area"`
}
