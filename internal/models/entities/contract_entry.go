package entities

import "time"

// ContractRegistryEntry is one finalized sale record. ApartmentID is a
// best-effort link resolved by normalized (block, floor, unit number) at
// import time; nil when no unit matches.
type ContractRegistryEntry struct {
	ID                  string    `db:"id"`
	ComplexID           string    `db:"complex_id"`
	ContractNumber      string    `db:"contract_number"`
	ContractDate        time.Time `db:"contract_date"`
	BlockName           *string   `db:"block_name"`
	Floor               *int      `db:"floor"`
	ApartmentNumber     *string   `db:"apartment_number"`
	Rooms               *int      `db:"rooms"`
	AreaSqm             *float64  `db:"area_sqm"`
	TotalPrice          *float64  `db:"total_price"`
	PricePerSqm         *float64  `db:"price_per_sqm"`
	DownPaymentPercent  *float64  `db:"down_payment_percent"`
	DownPaymentAmount   *float64  `db:"down_payment_amount"`
	BuyerFullName       string    `db:"buyer_full_name"`
	BuyerPassportSeries *string   `db:"buyer_passport_series"`
	BuyerPinfl          *string   `db:"buyer_pinfl"`
	IssuedBy            *string   `db:"issued_by"`
	RegistrationAddress *string   `db:"registration_address"`
	PhoneNumber         *string   `db:"phone_number"`
	SalesDepartment     *string   `db:"sales_department"`
	ApartmentID         *string   `db:"apartment_id"`
	ExtraData           JSONMap   `db:"extra_data"`
}
