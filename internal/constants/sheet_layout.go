package constants

// Column layout of the booking spreadsheet ("shakhmatka"). One sheet per
// complex, named after the complex; data starts on row 2 below the header.
// Indices are zero-based positions inside the read range.
const (
	GridColBlock      = 0
	GridColStatus     = 2
	GridColUnitNumber = 4
	GridColFloor      = 6

	GridDataStartRow = 2
	GridReadRange    = "A2:G"

	// StatusColumnLetter is the sheet column targeted by single-cell status
	// writes, matching GridColStatus.
	StatusColumnLetter = "C"
)

// Column layout of the lead intake spreadsheet. The booking registration
// flow appends one row per lead; only the unit number matters here.
const (
	IntakeColUnitNumber = 4
	IntakeReadRange     = "A2:G"
)
