package importer

import (
	"strconv"
	"strings"

	gorm "gorm.io/gorm"

	models "kvadrat-crm/inventory/internal/models/gorm"
	"kvadrat-crm/inventory/internal/normalize"
)

// Shape names reported back to callers and used in validation errors.
const (
	ShapeUnitGrid         = "unit_grid"
	ShapePriceGrid        = "price_grid"
	ShapeContractRegistry = "contract_registry"
)

// Importer loads spreadsheet exports into the database. Every import is a
// full replace of the complex's rows for that shape, executed in a single
// transaction, so re-running the same file is idempotent.
type Importer struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// unitIdentityKey is the triple that identifies a unit inside a complex.
// Block names go through normalize.BlockName so that spelling variants of
// the same block ("Блок А", "блок_A") land on the same key.
func unitIdentityKey(blockSlug string, floor int, unitNumber string) string {
	var b strings.Builder
	b.WriteString(blockSlug)
	b.WriteByte('|')
	b.WriteString(normalize.UnitNumber(unitNumber))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(floor))
	return b.String()
}

// relinkContracts recomputes apartment_id for every registry entry of the
// complex against the current unit set. It runs after both unit-grid and
// registry imports, so the linkage heals no matter which file arrives first.
func relinkContracts(tx *gorm.DB, complexID string) error {
	var units []models.ApartmentUnit
	if err := tx.Where("complex_id = ?", complexID).Find(&units).Error; err != nil {
		return err
	}
	byIdentity := make(map[string]string, len(units))
	for _, u := range units {
		byIdentity[unitIdentityKey(u.BlockSlug, u.Floor, u.UnitNumber)] = u.ID
	}

	var entries []models.ContractRegistryEntry
	if err := tx.Where("complex_id = ?", complexID).Find(&entries).Error; err != nil {
		return err
	}
	for _, e := range entries {
		var linked *string
		if e.BlockName != nil && e.Floor != nil && e.ApartmentNumber != nil {
			key := unitIdentityKey(normalize.BlockName(*e.BlockName), *e.Floor, *e.ApartmentNumber)
			if id, ok := byIdentity[key]; ok {
				linked = &id
			}
		}
		if !sameLink(e.ApartmentID, linked) {
			if err := tx.Model(&models.ContractRegistryEntry{}).
				Where("id = ?", e.ID).
				Update("apartment_id", linked).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func sameLink(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
