package constants

const (
	GetComplexBySlug = `
	SELECT * FROM residential_complexes WHERE slug = $1
	`

	ListComplexes = `
	SELECT * FROM residential_complexes ORDER BY name ASC
	`

	ListUnitsByComplex = `
	SELECT * FROM apartment_units
	WHERE complex_id = $1
	ORDER BY block_name ASC, floor ASC, unit_number ASC
	`

	GetUnitByIdentity = `
	SELECT * FROM apartment_units
	WHERE complex_id = $1 AND block_slug = $2 AND floor = $3 AND unit_number = $4
	`

	ListDistinctBlockAreas = `
	SELECT DISTINCT block_name, area_sqm FROM apartment_units
	WHERE complex_id = $1 AND block_name <> '' AND area_sqm IS NOT NULL
	`

	ListPricesByComplex = `
	SELECT * FROM chessboard_price_entries
	WHERE complex_id = $1
	ORDER BY floor DESC, order_index ASC
	`

	ListContractsByComplex = `
	SELECT * FROM contract_registry_entries
	WHERE complex_id = $1
	ORDER BY contract_date ASC, contract_number ASC
	`
)
