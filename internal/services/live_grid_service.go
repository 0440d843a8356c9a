package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"kvadrat-crm/inventory/internal/common"
	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/models/entities"
	"kvadrat-crm/inventory/internal/normalize"
	"kvadrat-crm/inventory/internal/providers"
)

// DefaultGridTTL bounds how stale the live booking view may get. Writes
// invalidate immediately, the TTL only covers edits made directly in the
// spreadsheet UI.
const DefaultGridTTL = 600 * time.Second

// LiveGridService serves the per-complex booking grid and the lead intake
// list from the live spreadsheets, behind a time-boxed cache.
type LiveGridService struct {
	sheets providers.SheetsAPI
	cache  common.CacheInterface
	ttl    time.Duration

	statusSpreadsheetID string
	intakeSpreadsheetID string
}

func NewLiveGridService(sheets providers.SheetsAPI, cache common.CacheInterface) *LiveGridService {
	return &LiveGridService{
		sheets:              sheets,
		cache:               cache,
		ttl:                 DefaultGridTTL,
		statusSpreadsheetID: os.Getenv("SPREADSHEET_ID_SHAXMATKA"),
		intakeSpreadsheetID: os.Getenv("SPREADSHEET_ID_LID"),
	}
}

// WithTTL overrides the cache window. Used by tests and by the warmup job
// which wants a fresh read regardless of cache age.
func (s *LiveGridService) WithTTL(ttl time.Duration) *LiveGridService {
	s.ttl = ttl
	return s
}

// GetStatusGrid returns the booking grid for a complex, from cache when the
// entry is younger than the TTL. The complex name doubles as the sheet name.
func (s *LiveGridService) GetStatusGrid(ctx context.Context, cx *entities.ResidentialComplex) (*dtos.StatusGrid, error) {
	key := constants.StatusGridCacheKey(cx.Slug)

	value, err := s.cache.GetOrSet(key, s.ttl, func() (any, error) {
		return s.loadStatusGrid(ctx, cx)
	})
	if err != nil {
		return nil, err
	}

	grid, ok := value.(*dtos.StatusGrid)
	if !ok {
		// A different deployment wrote an incompatible shape (the Redis
		// backend round-trips through JSON). Treat as a miss.
		s.cache.Delete(key)
		grid, err := s.loadStatusGrid(ctx, cx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, grid, s.ttl)
		return grid, nil
	}
	return grid, nil
}

func (s *LiveGridService) loadStatusGrid(ctx context.Context, cx *entities.ResidentialComplex) (*dtos.StatusGrid, error) {
	readRange := fmt.Sprintf("%s!%s", cx.Name, constants.GridReadRange)
	rows, err := s.sheets.ReadRange(ctx, s.statusSpreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking grid for %s: %w", cx.Slug, err)
	}

	grid := &dtos.StatusGrid{ComplexSlug: cx.Slug, SheetName: cx.Name}
	for i, row := range rows {
		unitNumber := normalize.UnitNumber(common.CellAt(row, constants.GridColUnitNumber))
		if unitNumber == "" {
			continue
		}
		floor, ok := normalize.Int(common.CellAt(row, constants.GridColFloor))
		if !ok {
			continue
		}
		grid.Rows = append(grid.Rows, dtos.StatusRow{
			RowIndex:   constants.GridDataStartRow + i,
			BlockName:  strings.TrimSpace(common.CellAt(row, constants.GridColBlock)),
			UnitNumber: unitNumber,
			Floor:      floor,
			Status:     strings.ToLower(strings.TrimSpace(common.CellAt(row, constants.GridColStatus))),
		})
	}
	return grid, nil
}

// SetStatus writes a unit's status into its single grid cell. Returns false
// when no row matches the unit; the cache entry for the complex is dropped
// either way, a failed write may still have changed the sheet.
func (s *LiveGridService) SetStatus(ctx context.Context, cx *entities.ResidentialComplex, blockName string, floor int, unitNumber, status string) (bool, error) {
	defer s.InvalidateComplex(cx.Slug)

	// Always locate against a fresh read. A row number from a stale cache
	// would write the status into someone else's cell.
	grid, err := s.loadStatusGrid(ctx, cx)
	if err != nil {
		return false, err
	}

	wantBlock := normalize.BlockName(blockName)
	wantUnit := normalize.UnitNumber(unitNumber)
	for _, row := range grid.Rows {
		if row.Floor != floor || normalize.UnitNumber(row.UnitNumber) != wantUnit {
			continue
		}
		if normalize.BlockName(row.BlockName) != wantBlock {
			continue
		}

		cell := fmt.Sprintf("%s!%s%d", cx.Name, constants.StatusColumnLetter, row.RowIndex)
		if err := s.sheets.WriteRange(ctx, s.statusSpreadsheetID, cell, [][]string{{status}}); err != nil {
			return false, fmt.Errorf("failed to write status for %s %s/%d/%s: %w", cx.Slug, wantBlock, floor, wantUnit, err)
		}
		return true, nil
	}

	logging.WithComplex(cx.Slug).Warnw("status write target not found in booking grid",
		"block", wantBlock, "floor", floor, "unit", wantUnit)
	return false, nil
}

// LeadIntakeUnits returns the normalized unit numbers present in the lead
// intake sheet for a complex. Presence there means a buyer started booking.
func (s *LiveGridService) LeadIntakeUnits(ctx context.Context, cx *entities.ResidentialComplex) (map[string]bool, error) {
	key := constants.LeadIntakeCacheKey(cx.Slug)

	value, err := s.cache.GetOrSet(key, s.ttl, func() (any, error) {
		return s.loadIntakeUnits(ctx, cx)
	})
	if err != nil {
		return nil, err
	}

	units, ok := value.(map[string]bool)
	if !ok {
		s.cache.Delete(key)
		units, err := s.loadIntakeUnits(ctx, cx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, units, s.ttl)
		return units, nil
	}
	return units, nil
}

func (s *LiveGridService) loadIntakeUnits(ctx context.Context, cx *entities.ResidentialComplex) (map[string]bool, error) {
	readRange := fmt.Sprintf("%s!%s", cx.Name, constants.IntakeReadRange)
	rows, err := s.sheets.ReadRange(ctx, s.intakeSpreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read lead intake for %s: %w", cx.Slug, err)
	}

	units := map[string]bool{}
	for _, row := range rows {
		if unit := normalize.UnitNumber(common.CellAt(row, constants.IntakeColUnitNumber)); unit != "" {
			units[unit] = true
		}
	}
	return units, nil
}

// InvalidateComplex drops every cached view of one complex. Deleting a key
// that is not cached is a no-op, so this is safe to call unconditionally.
func (s *LiveGridService) InvalidateComplex(complexSlug string) {
	s.cache.Delete(constants.StatusGridCacheKey(complexSlug))
	s.cache.Delete(constants.LeadIntakeCacheKey(complexSlug))
	s.cache.Delete(constants.PriceGridCacheKey(complexSlug))
}
