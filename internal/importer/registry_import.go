package importer

import (
	"context"
	"strings"
	"time"

	gorm "gorm.io/gorm"

	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/models/entities"
	models "kvadrat-crm/inventory/internal/models/gorm"
	"kvadrat-crm/inventory/internal/normalize"
)

// ImportContractRegistry replaces the complex's contract registry with the
// contents of an .xlsx export. Duplicate contract numbers keep the first
// occurrence. Headers the mapper doesn't recognize are preserved per-row in
// extra_data. Only a missing contract number drops a row; an unreadable
// contract date defaults to the import day. Returns the number of entries
// written.
func (im *Importer) ImportContractRegistry(ctx context.Context, complexID, path string) (int, error) {
	headers, rows, err := readWorkbook(path)
	if err != nil {
		return 0, err
	}

	// Resolve each column to a known field or mark it as extra.
	type column struct {
		idx    int
		field  string // empty for extra columns
		header string
	}
	var columns []column
	seenField := map[string]bool{}
	for idx, h := range headers {
		trimmed := strings.TrimSpace(h)
		if trimmed == "" {
			continue
		}
		field, ok := contractHeaderMap[normalize.Header(trimmed)]
		if ok && !seenField[field] {
			seenField[field] = true
			columns = append(columns, column{idx: idx, field: field, header: trimmed})
		} else {
			columns = append(columns, column{idx: idx, header: trimmed})
		}
	}
	if !seenField["contract_number"] {
		return 0, &ValidationError{Shape: ShapeContractRegistry, Missing: []string{"contract_number"}}
	}

	var entries []models.ContractRegistryEntry
	seenContract := map[string]bool{}
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		entry := models.ContractRegistryEntry{ComplexID: complexID, ExtraData: entities.JSONMap{}}
		for _, col := range columns {
			cell := strings.TrimSpace(cellAt(row, col.idx))
			if col.field == "" {
				if cell != "" {
					entry.ExtraData[col.header] = cell
				}
				continue
			}
			setContractField(&entry, col.field, cell)
		}

		if entry.ContractNumber == "" {
			logging.Warn("skipping registry row without contract number", "row", i+2)
			continue
		}
		if entry.ContractDate.IsZero() {
			// A missing or unparsable date never loses the contract; the
			// row is dated at import time instead.
			entry.ContractDate = time.Now().UTC().Truncate(24 * time.Hour)
		}
		if seenContract[entry.ContractNumber] {
			logging.Warn("skipping duplicate contract number",
				"row", i+2, "contract", entry.ContractNumber)
			continue
		}
		seenContract[entry.ContractNumber] = true
		entries = append(entries, entry)
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complex_id = ?", complexID).
			Delete(&models.ContractRegistryEntry{}).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(&entries, 500).Error; err != nil {
				return err
			}
		}
		return relinkContracts(tx, complexID)
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// setContractField writes one cell into the entry. Cells that fail to parse
// for a typed field leave the field nil rather than failing the row.
func setContractField(entry *models.ContractRegistryEntry, field, cell string) {
	if cell == "" {
		return
	}
	switch field {
	case "contract_number":
		entry.ContractNumber = cell
	case "contract_date":
		if d, ok := normalize.Date(cell); ok {
			entry.ContractDate = d
		}
	case "block_name":
		entry.BlockName = &cell
	case "floor":
		if v, ok := normalize.Int(cell); ok {
			entry.Floor = &v
		}
	case "apartment_number":
		entry.ApartmentNumber = &cell
	case "rooms":
		if v, ok := normalize.Int(cell); ok {
			entry.Rooms = &v
		}
	case "area_sqm":
		if v, err := normalize.Float(cell); err == nil {
			entry.AreaSqm = &v
		}
	case "total_price":
		if v, err := normalize.Float(cell); err == nil {
			entry.TotalPrice = &v
		}
	case "price_per_sqm":
		if v, err := normalize.Float(cell); err == nil {
			entry.PricePerSqm = &v
		}
	case "down_payment_percent":
		if v, err := normalize.Float(strings.TrimSuffix(cell, "%")); err == nil {
			entry.DownPaymentPercent = &v
		}
	case "down_payment_amount":
		if v, err := normalize.Float(cell); err == nil {
			entry.DownPaymentAmount = &v
		}
	case "buyer_full_name":
		entry.BuyerFullName = cell
	case "buyer_passport_series":
		entry.BuyerPassportSeries = &cell
	case "buyer_pinfl":
		entry.BuyerPinfl = &cell
	case "issued_by":
		entry.IssuedBy = &cell
	case "registration_address":
		entry.RegistrationAddress = &cell
	case "phone_number":
		entry.PhoneNumber = &cell
	case "sales_department":
		entry.SalesDepartment = &cell
	}
}
