package constants

// Unit statuses as written into the booking spreadsheet. The grid is edited
// by operators too, so comparisons are case-insensitive on the read side.
const (
	UnitStatusFree     = "free"
	UnitStatusReserved = "reserved"
	UnitStatusSold     = "sold"
)
