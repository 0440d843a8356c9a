package repositories

import (
	"context"
	"sort"

	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type PriceRepository struct {
	db *sqlx.DB
}

func NewPriceRepository(db *sqlx.DB) *PriceRepository {
	return &PriceRepository{db}
}

func (r *PriceRepository) ListByComplex(ctx context.Context, complexID string) ([]entities.ChessboardPriceEntry, error) {
	var entries []entities.ChessboardPriceEntry
	if err := r.db.SelectContext(ctx, &entries, constants.ListPricesByComplex, complexID); err != nil {
		return nil, err
	}
	return entries, nil
}

// PriceMatrix reassembles the chessboard price grid: one row per floor
// (descending), columns in original import order.
func PriceMatrix(entries []entities.ChessboardPriceEntry) (categories []string, floors []int, rows [][]*float64) {
	if len(entries) == 0 {
		return nil, nil, nil
	}

	catOrder := map[string]int{}
	for _, e := range entries {
		if _, seen := catOrder[e.CategoryKey]; !seen {
			catOrder[e.CategoryKey] = e.OrderIndex
		}
	}
	categories = make([]string, 0, len(catOrder))
	for key := range catOrder {
		categories = append(categories, key)
	}
	sort.Slice(categories, func(i, j int) bool {
		if catOrder[categories[i]] != catOrder[categories[j]] {
			return catOrder[categories[i]] < catOrder[categories[j]]
		}
		return categories[i] < categories[j]
	})

	byFloor := map[int]map[string]float64{}
	for _, e := range entries {
		if _, ok := byFloor[e.Floor]; !ok {
			byFloor[e.Floor] = map[string]float64{}
			floors = append(floors, e.Floor)
		}
		byFloor[e.Floor][e.CategoryKey] = e.PricePerSqm
	}
	sort.Sort(sort.Reverse(sort.IntSlice(floors)))

	rows = make([][]*float64, 0, len(floors))
	for _, floor := range floors {
		row := make([]*float64, len(categories))
		for i, cat := range categories {
			if price, ok := byFloor[floor][cat]; ok {
				p := price
				row[i] = &p
			}
		}
		rows = append(rows, row)
	}
	return categories, floors, rows
}
