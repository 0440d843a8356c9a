package repositories

import (
	"context"
	"database/sql"
	"errors"

	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ErrComplexNotFound is returned when no complex matches the given key.
var ErrComplexNotFound = errors.New("residential complex not found")

type ComplexRepository struct {
	db *sqlx.DB
}

func NewComplexRepository(db *sqlx.DB) *ComplexRepository {
	return &ComplexRepository{db}
}

func (r *ComplexRepository) FindBySlug(ctx context.Context, slug string) (*entities.ResidentialComplex, error) {
	var complex entities.ResidentialComplex
	err := r.db.QueryRowxContext(ctx, constants.GetComplexBySlug, slug).StructScan(&complex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrComplexNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complex, nil
}

func (r *ComplexRepository) ListAll(ctx context.Context) ([]entities.ResidentialComplex, error) {
	var complexes []entities.ResidentialComplex
	if err := r.db.SelectContext(ctx, &complexes, constants.ListComplexes); err != nil {
		return nil, err
	}
	return complexes, nil
}
