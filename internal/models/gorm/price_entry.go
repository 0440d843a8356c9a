package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChessboardPriceEntry is the import pipeline's write model for
// chessboard_price_entries. Fully replaced on each price import.
type ChessboardPriceEntry struct {
	ID          string  `gorm:"column:id;primaryKey;type:uuid"`
	ComplexID   string  `gorm:"column:complex_id;type:uuid;not null;index"`
	Floor       int     `gorm:"column:floor;not null"`
	CategoryKey string  `gorm:"column:category_key;not null"`
	PricePerSqm float64 `gorm:"column:price_per_sqm;not null"`
	OrderIndex  int     `gorm:"column:order_index;not null"`
}

// TableName specifies the table name for GORM
func (ChessboardPriceEntry) TableName() string {
	return "chessboard_price_entries"
}

func (p *ChessboardPriceEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
