package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kvadrat-crm/inventory/internal/models/entities"
)

// ContractRegistryEntry is the import pipeline's write model for
// contract_registry_entries. Headers the mapper doesn't know are preserved
// under their original text in ExtraData.
type ContractRegistryEntry struct {
	ID                  string           `gorm:"column:id;primaryKey;type:uuid"`
	ComplexID           string           `gorm:"column:complex_id;type:uuid;not null;index"`
	ContractNumber      string           `gorm:"column:contract_number;not null"`
	ContractDate        time.Time        `gorm:"column:contract_date;not null"`
	BlockName           *string          `gorm:"column:block_name"`
	Floor               *int             `gorm:"column:floor"`
	ApartmentNumber     *string          `gorm:"column:apartment_number"`
	Rooms               *int             `gorm:"column:rooms"`
	AreaSqm             *float64         `gorm:"column:area_sqm"`
	TotalPrice          *float64         `gorm:"column:total_price"`
	PricePerSqm         *float64         `gorm:"column:price_per_sqm"`
	DownPaymentPercent  *float64         `gorm:"column:down_payment_percent"`
	DownPaymentAmount   *float64         `gorm:"column:down_payment_amount"`
	BuyerFullName       string           `gorm:"column:buyer_full_name;not null;default:''"`
	BuyerPassportSeries *string          `gorm:"column:buyer_passport_series"`
	BuyerPinfl          *string          `gorm:"column:buyer_pinfl"`
	IssuedBy            *string          `gorm:"column:issued_by"`
	RegistrationAddress *string          `gorm:"column:registration_address"`
	PhoneNumber         *string          `gorm:"column:phone_number"`
	SalesDepartment     *string          `gorm:"column:sales_department"`
	ApartmentID         *string          `gorm:"column:apartment_id;type:uuid"`
	ExtraData           entities.JSONMap `gorm:"column:extra_data;type:jsonb"`
}

// TableName specifies the table name for GORM
func (ContractRegistryEntry) TableName() string {
	return "contract_registry_entries"
}

func (c *ContractRegistryEntry) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
