package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResidentialComplex mirrors residential_complexes for GORM-side work
// (import pipeline transactions and test databases).
type ResidentialComplex struct {
	ID                   string     `gorm:"column:id;primaryKey;type:uuid"`
	Name                 string     `gorm:"column:name;not null;uniqueIndex"`
	Slug                 string     `gorm:"column:slug;not null;uniqueIndex"`
	InstallmentStartDate *time.Time `gorm:"column:installment_start_date"`
	InstallmentMonths    int        `gorm:"column:installment_months;default:24"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ResidentialComplex) TableName() string {
	return "residential_complexes"
}

// BeforeCreate assigns the primary key. IDs are generated in-process so the
// same models work against Postgres and the sqlite test databases.
func (c *ResidentialComplex) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
