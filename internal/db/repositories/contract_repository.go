package repositories

import (
	"context"

	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type ContractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db}
}

func (r *ContractRepository) ListByComplex(ctx context.Context, complexID string) ([]entities.ContractRegistryEntry, error) {
	var entries []entities.ContractRegistryEntry
	if err := r.db.SelectContext(ctx, &entries, constants.ListContractsByComplex, complexID); err != nil {
		return nil, err
	}
	return entries, nil
}
