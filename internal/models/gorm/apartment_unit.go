package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kvadrat-crm/inventory/internal/models/entities"
)

// ApartmentUnit is the import pipeline's write model for apartment_units.
// The whole set for a complex is replaced on every unit-grid import.
type ApartmentUnit struct {
	ID         string           `gorm:"column:id;primaryKey;type:uuid"`
	ComplexID  string           `gorm:"column:complex_id;type:uuid;not null;index:idx_units_identity"`
	BlockName  string           `gorm:"column:block_name;not null"`
	BlockSlug  string           `gorm:"column:block_slug;not null;index:idx_units_identity"`
	UnitType   *string          `gorm:"column:unit_type"`
	Status     string           `gorm:"column:status;not null"`
	Rooms      *int             `gorm:"column:rooms"`
	UnitNumber string           `gorm:"column:unit_number;not null;index:idx_units_identity"`
	AreaSqm    *float64         `gorm:"column:area_sqm"`
	Floor      int              `gorm:"column:floor;not null;index:idx_units_identity"`
	RawPayload entities.JSONMap `gorm:"column:raw_payload;type:jsonb"`
}

// TableName specifies the table name for GORM
func (ApartmentUnit) TableName() string {
	return "apartment_units"
}

func (u *ApartmentUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
