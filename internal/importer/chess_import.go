package importer

import (
	"context"
	"strings"

	gorm "gorm.io/gorm"

	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/models/entities"
	models "kvadrat-crm/inventory/internal/models/gorm"
	"kvadrat-crm/inventory/internal/normalize"
)

// ImportChessGrid replaces the complex's apartment units with the contents
// of an .xlsx unit grid ("шахматка"). Rows without a unit number or with an
// unparsable floor are skipped, the rest of the file still imports. Returns
// the number of units written.
func (im *Importer) ImportChessGrid(ctx context.Context, complexID, path string) (int, error) {
	headers, rows, err := readWorkbook(path)
	if err != nil {
		return 0, err
	}

	headerMap := mapHeaders(headers, chessHeaderAliases)
	var missing []string
	for _, field := range chessRequiredFields {
		if _, ok := headerMap[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return 0, &ValidationError{Shape: ShapeUnitGrid, Missing: missing}
	}

	var units []models.ApartmentUnit
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}

		unitNumber := normalize.UnitNumber(cellAt(row, headerMap[FieldUnitNumber]))
		if unitNumber == "" {
			logging.Warn("skipping unit-grid row without unit number", "row", i+2)
			continue
		}
		floor, ok := normalize.Int(cellAt(row, headerMap[FieldFloor]))
		if !ok {
			logging.Warn("skipping unit-grid row with unparsable floor",
				"row", i+2, "floor", cellAt(row, headerMap[FieldFloor]))
			continue
		}

		blockName := strings.TrimSpace(cellAt(row, headerMap[FieldBlockName]))
		// The status cell is a catalog snapshot and is stored as written;
		// status normalization belongs to the live-grid read path.
		status := strings.TrimSpace(cellAt(row, headerMap[FieldStatus]))

		unit := models.ApartmentUnit{
			ComplexID:  complexID,
			BlockName:  blockName,
			BlockSlug:  normalize.BlockName(blockName),
			Status:     status,
			UnitNumber: unitNumber,
			Floor:      floor,
			RawPayload: rawPayload(headers, row),
		}
		if idx, ok := headerMap[FieldUnitType]; ok {
			if v := strings.TrimSpace(cellAt(row, idx)); v != "" {
				unit.UnitType = &v
			}
		}
		if idx, ok := headerMap[FieldRooms]; ok {
			if rooms, ok := normalize.Int(cellAt(row, idx)); ok {
				unit.Rooms = &rooms
			}
		}
		if idx, ok := headerMap[FieldAreaSqm]; ok {
			if area, err := normalize.Float(cellAt(row, idx)); err == nil {
				unit.AreaSqm = &area
			}
		}
		units = append(units, unit)
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complex_id = ?", complexID).
			Delete(&models.ApartmentUnit{}).Error; err != nil {
			return err
		}
		if len(units) > 0 {
			if err := tx.CreateInBatches(&units, 500).Error; err != nil {
				return err
			}
		}
		return relinkContracts(tx, complexID)
	})
	if err != nil {
		return 0, err
	}
	return len(units), nil
}

// rawPayload keeps the original row keyed by its original headers so that
// columns the alias table doesn't know are not lost on import.
func rawPayload(headers, row []string) entities.JSONMap {
	payload := make(entities.JSONMap, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		payload[h] = cellAt(row, i)
	}
	return payload
}
