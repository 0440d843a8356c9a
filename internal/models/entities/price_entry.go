package entities

// ChessboardPriceEntry is the price per square meter for one
// (complex, floor, category) triple. CategoryKey carries the source header
// text verbatim; OrderIndex preserves column order, the only ordering the
// categories have.
type ChessboardPriceEntry struct {
	ID          string  `db:"id"`
	ComplexID   string  `db:"complex_id"`
	Floor       int     `db:"floor"`
	CategoryKey string  `db:"category_key"`
	PricePerSqm float64 `db:"price_per_sqm"`
	OrderIndex  int     `db:"order_index"`
}
