package entities

import "time"

// ResidentialComplex is one catalog root. The slug is unique and derived
// deterministically from the name when the operator leaves it blank.
type ResidentialComplex struct {
	ID                   string     `db:"id"`
	Name                 string     `db:"name"`
	Slug                 string     `db:"slug"`
	InstallmentStartDate *time.Time `db:"installment_start_date"`
	InstallmentMonths    int        `db:"installment_months"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}
