package services

import (
	"context"
	"testing"
	"time"

	"kvadrat-crm/inventory/internal/common"
	"kvadrat-crm/inventory/internal/models/entities"
)

// fakeSheetsAPI implements providers.SheetsAPI with function fields so each
// test overrides only what it needs.
type fakeSheetsAPI struct {
	readRangeFunc      func(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error)
	writeRangeFunc     func(ctx context.Context, spreadsheetID, a1Range string, values [][]string) error
	listSheetNamesFunc func(ctx context.Context, spreadsheetID string) ([]string, error)

	readCalls  int
	writeCalls []string
}

func (f *fakeSheetsAPI) ReadRange(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
	f.readCalls++
	return f.readRangeFunc(ctx, spreadsheetID, a1Range)
}

func (f *fakeSheetsAPI) WriteRange(ctx context.Context, spreadsheetID, a1Range string, values [][]string) error {
	f.writeCalls = append(f.writeCalls, a1Range)
	if f.writeRangeFunc != nil {
		return f.writeRangeFunc(ctx, spreadsheetID, a1Range, values)
	}
	return nil
}

func (f *fakeSheetsAPI) ListSheetNames(ctx context.Context, spreadsheetID string) ([]string, error) {
	if f.listSheetNamesFunc != nil {
		return f.listSheetNamesFunc(ctx, spreadsheetID)
	}
	return nil, nil
}

func testComplex() *entities.ResidentialComplex {
	return &entities.ResidentialComplex{ID: "cx-1", Name: "Бахор", Slug: "бахор"}
}

// grid sheet layout: block, _, status, _, unit, _, floor
func gridRows() [][]string {
	return [][]string{
		{"Блок А", "", "free", "", "12", "", "2"},
		{"Блок А", "", "reserved", "", "13", "", "2"},
		{"", "", "", "", "", "", ""}, // blank separator row keeps its index
		{"Блок Б", "", "free", "", "1", "", "1"},
	}
}

func newGridService(sheets *fakeSheetsAPI) *LiveGridService {
	svc := NewLiveGridService(sheets, common.NewCacheService(600, 1200))
	svc.statusSpreadsheetID = "status-sheet"
	svc.intakeSpreadsheetID = "intake-sheet"
	return svc
}

func TestGetStatusGrid_ParsesAndCaches(t *testing.T) {
	sheets := &fakeSheetsAPI{
		readRangeFunc: func(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
			if spreadsheetID != "status-sheet" {
				t.Errorf("Expected status spreadsheet, got %s", spreadsheetID)
			}
			if a1Range != "Бахор!A2:G" {
				t.Errorf("Expected range Бахор!A2:G, got %s", a1Range)
			}
			return gridRows(), nil
		},
	}
	svc := newGridService(sheets)
	cx := testComplex()

	grid, err := svc.GetStatusGrid(context.Background(), cx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(grid.Rows) != 3 {
		t.Fatalf("Expected 3 unit rows (blank row dropped), got %d", len(grid.Rows))
	}
	// Row indexes must stay anchored to the sheet, not to the filtered slice.
	if grid.Rows[2].RowIndex != 5 {
		t.Errorf("Expected row after blank to keep sheet row 5, got %d", grid.Rows[2].RowIndex)
	}
	if grid.Rows[1].Status != "reserved" {
		t.Errorf("Expected status reserved, got %q", grid.Rows[1].Status)
	}

	// Second call inside the TTL is served from cache.
	if _, err := svc.GetStatusGrid(context.Background(), cx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sheets.readCalls != 1 {
		t.Errorf("Expected 1 spreadsheet read, got %d", sheets.readCalls)
	}
}

func TestGetStatusGrid_ReloadsAfterTTL(t *testing.T) {
	sheets := &fakeSheetsAPI{
		readRangeFunc: func(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
			return gridRows(), nil
		},
	}
	svc := newGridService(sheets).WithTTL(10 * time.Millisecond)
	cx := testComplex()

	if _, err := svc.GetStatusGrid(context.Background(), cx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := svc.GetStatusGrid(context.Background(), cx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sheets.readCalls != 2 {
		t.Errorf("Expected expired entry to trigger a reload, got %d reads", sheets.readCalls)
	}
}

func TestSetStatus_WritesSingleCellAndInvalidates(t *testing.T) {
	sheets := &fakeSheetsAPI{
		readRangeFunc: func(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
			return gridRows(), nil
		},
	}
	svc := newGridService(sheets)
	cx := testComplex()

	// Prime the cache so invalidation is observable.
	if _, err := svc.GetStatusGrid(context.Background(), cx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	readsBefore := sheets.readCalls

	// Block spelled differently from the sheet still matches after
	// normalization.
	found, err := svc.SetStatus(context.Background(), cx, "блок_А", 2, "13", "free")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !found {
		t.Fatal("Expected the unit row to be found")
	}
	if len(sheets.writeCalls) != 1 || sheets.writeCalls[0] != "Бахор!C3" {
		t.Errorf("Expected single write to Бахор!C3, got %v", sheets.writeCalls)
	}

	// The cached grid was dropped, the next read goes to the spreadsheet.
	// SetStatus itself reads once to locate the row.
	if _, err := svc.GetStatusGrid(context.Background(), cx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sheets.readCalls != readsBefore+2 {
		t.Errorf("Expected fresh locate read plus post-invalidation reload, got %d reads", sheets.readCalls-readsBefore)
	}
}

func TestSetStatus_RowNotFound(t *testing.T) {
	sheets := &fakeSheetsAPI{
		readRangeFunc: func(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
			return gridRows(), nil
		},
	}
	svc := newGridService(sheets)

	found, err := svc.SetStatus(context.Background(), testComplex(), "Блок А", 9, "404", "reserved")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if found {
		t.Error("Expected not found for a unit absent from the grid")
	}
	if len(sheets.writeCalls) != 0 {
		t.Errorf("Expected no write, got %v", sheets.writeCalls)
	}
}

func TestLeadIntakeUnits(t *testing.T) {
	sheets := &fakeSheetsAPI{
		readRangeFunc: func(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
			if spreadsheetID != "intake-sheet" {
				t.Errorf("Expected intake spreadsheet, got %s", spreadsheetID)
			}
			return [][]string{
				{"2026-08-01", "Иванов", "", "", " 12 "},
				{"2026-08-02", "Петров", "", "", "13"},
				{"2026-08-03", "Сидоров"}, // short row, no unit
			}, nil
		},
	}
	svc := newGridService(sheets)

	units, err := svc.LeadIntakeUnits(context.Background(), testComplex())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(units) != 2 || !units["12"] || !units["13"] {
		t.Errorf("Expected trimmed units {12, 13}, got %v", units)
	}
}
