package importer

import (
	"context"
	"strings"

	gorm "gorm.io/gorm"

	"kvadrat-crm/inventory/internal/logging"
	models "kvadrat-crm/inventory/internal/models/gorm"
	"kvadrat-crm/inventory/internal/normalize"
)

// ImportPriceGrid replaces the complex's price matrix with the contents of
// an .xlsx price grid. Column 0 is the floor, every other non-empty header
// is a price category; column order becomes the category's order index.
// Empty cells are legal (no price for that floor/category). Returns the
// number of price entries written.
func (im *Importer) ImportPriceGrid(ctx context.Context, complexID, path string) (int, error) {
	headers, rows, err := readWorkbook(path)
	if err != nil {
		return 0, err
	}
	if len(headers) < 2 {
		return 0, &ValidationError{Shape: ShapePriceGrid, Reason: "expected a floor column and at least one price category"}
	}

	type category struct {
		col        int
		key        string
		orderIndex int
	}
	var categories []category
	for col := 1; col < len(headers); col++ {
		key := strings.TrimSpace(headers[col])
		if key == "" {
			continue
		}
		categories = append(categories, category{col: col, key: key, orderIndex: len(categories)})
	}
	if len(categories) == 0 {
		return 0, &ValidationError{Shape: ShapePriceGrid, Reason: "no price category headers found"}
	}

	var entries []models.ChessboardPriceEntry
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		floor, ok := normalize.Int(cellAt(row, 0))
		if !ok {
			logging.Warn("skipping price-grid row with unparsable floor", "row", i+2, "floor", cellAt(row, 0))
			continue
		}
		for _, cat := range categories {
			cell := strings.TrimSpace(cellAt(row, cat.col))
			if cell == "" {
				continue
			}
			price, err := normalize.Float(cell)
			if err != nil {
				logging.Warn("skipping unparsable price cell",
					"row", i+2, "category", cat.key, "value", cell)
				continue
			}
			entries = append(entries, models.ChessboardPriceEntry{
				ComplexID:   complexID,
				Floor:       floor,
				CategoryKey: cat.key,
				PricePerSqm: price,
				OrderIndex:  cat.orderIndex,
			})
		}
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complex_id = ?", complexID).
			Delete(&models.ChessboardPriceEntry{}).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			return tx.CreateInBatches(&entries, 500).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
