package entities

// ApartmentUnit is one saleable unit within a complex. Identity inside a
// complex is (BlockSlug, Floor, UnitNumber) — never a spreadsheet row index,
// because re-imports fully replace the set. Status here is a point-in-time
// snapshot; the live booking spreadsheet is authoritative while selling.
type ApartmentUnit struct {
	ID         string   `db:"id"`
	ComplexID  string   `db:"complex_id"`
	BlockName  string   `db:"block_name"`
	BlockSlug  string   `db:"block_slug"`
	UnitType   *string  `db:"unit_type"`
	Status     string   `db:"status"`
	Rooms      *int     `db:"rooms"`
	UnitNumber string   `db:"unit_number"`
	AreaSqm    *float64 `db:"area_sqm"`
	Floor      int      `db:"floor"`
	RawPayload JSONMap  `db:"raw_payload"`
}

// BlockArea is a distinct (block, area) projection used for plan warm-up.
type BlockArea struct {
	BlockName string   `db:"block_name"`
	AreaSqm   *float64 `db:"area_sqm"`
}
