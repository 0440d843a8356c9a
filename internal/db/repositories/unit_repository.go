package repositories

import (
	"context"
	"database/sql"
	"errors"

	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type UnitRepository struct {
	db *sqlx.DB
}

func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db}
}

func (r *UnitRepository) ListByComplex(ctx context.Context, complexID string) ([]entities.ApartmentUnit, error) {
	var units []entities.ApartmentUnit
	if err := r.db.SelectContext(ctx, &units, constants.ListUnitsByComplex, complexID); err != nil {
		return nil, err
	}
	return units, nil
}

// FindByIdentity looks a unit up by its identity triple. blockSlug and
// unitNumber must already be normalized.
func (r *UnitRepository) FindByIdentity(ctx context.Context, complexID, blockSlug string, floor int, unitNumber string) (*entities.ApartmentUnit, error) {
	var unit entities.ApartmentUnit
	err := r.db.QueryRowxContext(ctx, constants.GetUnitByIdentity, complexID, blockSlug, floor, unitNumber).StructScan(&unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// ListBlockAreas returns the distinct (block, area) pairs of a complex,
// the input for plan cache warm-up.
func (r *UnitRepository) ListBlockAreas(ctx context.Context, complexID string) ([]entities.BlockArea, error) {
	var pairs []entities.BlockArea
	if err := r.db.SelectContext(ctx, &pairs, constants.ListDistinctBlockAreas, complexID); err != nil {
		return nil, err
	}
	return pairs, nil
}
