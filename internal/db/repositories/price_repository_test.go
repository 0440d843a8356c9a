package repositories

import (
	"testing"

	"kvadrat-crm/inventory/internal/models/entities"
)

func TestPriceMatrix(t *testing.T) {
	entries := []entities.ChessboardPriceEntry{
		{Floor: 1, CategoryKey: "Премиум", PricePerSqm: 12_000_000, OrderIndex: 1},
		{Floor: 1, CategoryKey: "Стандарт", PricePerSqm: 10_000_000, OrderIndex: 0},
		{Floor: 3, CategoryKey: "Стандарт", PricePerSqm: 11_000_000, OrderIndex: 0},
		// Floor 3 has no premium price, its cell must come back nil.
	}

	categories, floors, rows := PriceMatrix(entries)

	if len(categories) != 2 || categories[0] != "Стандарт" || categories[1] != "Премиум" {
		t.Fatalf("expected categories in import column order, got %v", categories)
	}
	if len(floors) != 2 || floors[0] != 3 || floors[1] != 1 {
		t.Fatalf("expected floors descending, got %v", floors)
	}

	if rows[0][0] == nil || *rows[0][0] != 11_000_000 {
		t.Errorf("expected floor 3 standard price, got %v", rows[0][0])
	}
	if rows[0][1] != nil {
		t.Errorf("expected nil cell for missing floor 3 premium price, got %v", *rows[0][1])
	}
	if rows[1][1] == nil || *rows[1][1] != 12_000_000 {
		t.Errorf("expected floor 1 premium price, got %v", rows[1][1])
	}
}

func TestPriceMatrixEmpty(t *testing.T) {
	categories, floors, rows := PriceMatrix(nil)
	if categories != nil || floors != nil || rows != nil {
		t.Errorf("expected all-nil result for no entries, got %v %v %v", categories, floors, rows)
	}
}
