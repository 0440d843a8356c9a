package jobs

import (
	"context"
	"errors"
	"testing"

	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/models/entities"
)

type fakeComplexRepo struct {
	complexes []entities.ResidentialComplex
	err       error
}

func (f *fakeComplexRepo) ListAll(ctx context.Context) ([]entities.ResidentialComplex, error) {
	return f.complexes, f.err
}

// fakeGrid simulates the two live sheets: statuses per unit number and the
// intake unit set. SetStatus mutates state like the real write would.
type fakeGrid struct {
	statuses   map[string]map[string]string // complex slug -> unit -> status
	intake     map[string]map[string]bool   // complex slug -> unit set
	gridErr    map[string]error
	writeCount int
	writes     []string
}

func (f *fakeGrid) GetStatusGrid(ctx context.Context, cx *entities.ResidentialComplex) (*dtos.StatusGrid, error) {
	if err := f.gridErr[cx.Slug]; err != nil {
		return nil, err
	}
	grid := &dtos.StatusGrid{ComplexSlug: cx.Slug, SheetName: cx.Name}
	row := 2
	for _, unit := range sortedUnits(f.statuses[cx.Slug]) {
		grid.Rows = append(grid.Rows, dtos.StatusRow{
			RowIndex:   row,
			BlockName:  "Блок А",
			UnitNumber: unit,
			Floor:      1,
			Status:     f.statuses[cx.Slug][unit],
		})
		row++
	}
	return grid, nil
}

func (f *fakeGrid) LeadIntakeUnits(ctx context.Context, cx *entities.ResidentialComplex) (map[string]bool, error) {
	return f.intake[cx.Slug], nil
}

func (f *fakeGrid) SetStatus(ctx context.Context, cx *entities.ResidentialComplex, blockName string, floor int, unitNumber, status string) (bool, error) {
	f.writeCount++
	f.writes = append(f.writes, cx.Slug+"/"+unitNumber+"="+status)
	if _, ok := f.statuses[cx.Slug][unitNumber]; !ok {
		return false, nil
	}
	f.statuses[cx.Slug][unitNumber] = status
	return true, nil
}

func sortedUnits(statuses map[string]string) []string {
	units := make([]string, 0, len(statuses))
	for u := range statuses {
		units = append(units, u)
	}
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			if units[j] < units[i] {
				units[i], units[j] = units[j], units[i]
			}
		}
	}
	return units
}

func reconcileFixture() (*fakeComplexRepo, *fakeGrid) {
	repo := &fakeComplexRepo{complexes: []entities.ResidentialComplex{
		{ID: "cx-1", Name: "Бахор", Slug: "бахор"},
	}}
	grid := &fakeGrid{
		statuses: map[string]map[string]string{
			"бахор": {
				"1": "free",     // intake present, must become reserved
				"2": "reserved", // intake present, already right
				"3": "reserved", // intake gone, must become free
				"4": "sold",     // intake gone, sold is not demotable
				"5": "free",     // no intake, stays free
			},
		},
		intake: map[string]map[string]bool{
			"бахор": {"1": true, "2": true},
		},
	}
	return repo, grid
}

func TestReconcile_ConvergesAndIsIdempotent(t *testing.T) {
	repo, grid := reconcileFixture()
	job := NewStatusReconcileJob(repo, grid)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := map[string]string{"1": "reserved", "2": "reserved", "3": "free", "4": "sold", "5": "free"}
	for unit, status := range want {
		if got := grid.statuses["бахор"][unit]; got != status {
			t.Errorf("unit %s: expected %q, got %q", unit, status, got)
		}
	}
	if grid.writeCount != 2 {
		t.Errorf("Expected exactly 2 cell writes, got %d: %v", grid.writeCount, grid.writes)
	}

	// Fixed point: a second pass over unchanged sources writes nothing.
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if grid.writeCount != 2 {
		t.Errorf("Expected no writes on second pass, got %d total: %v", grid.writeCount, grid.writes)
	}
}

func TestReconcile_DemotionGuardOff(t *testing.T) {
	t.Setenv("RECONCILE_DEMOTE_TO_FREE", "false")

	repo, grid := reconcileFixture()
	job := NewStatusReconcileJob(repo, grid)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := grid.statuses["бахор"]["3"]; got != "reserved" {
		t.Errorf("Expected demotion suppressed with guard off, unit 3 is %q", got)
	}
	if got := grid.statuses["бахор"]["1"]; got != "reserved" {
		t.Errorf("Expected reservation sync still active, unit 1 is %q", got)
	}
}

func TestReconcile_ContinuesPastFailingComplex(t *testing.T) {
	repo := &fakeComplexRepo{complexes: []entities.ResidentialComplex{
		{ID: "cx-1", Name: "Бахор", Slug: "бахор"},
		{ID: "cx-2", Name: "Навруз", Slug: "навруз"},
	}}
	grid := &fakeGrid{
		statuses: map[string]map[string]string{
			"бахор":  {"1": "free"},
			"навруз": {"1": "free"},
		},
		intake: map[string]map[string]bool{
			"навруз": {"1": true},
		},
		gridErr: map[string]error{"бахор": errors.New("spreadsheet unavailable")},
	}
	job := NewStatusReconcileJob(repo, grid)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Per-complex failures must not fail the pass, got %v", err)
	}
	if got := grid.statuses["навруз"]["1"]; got != "reserved" {
		t.Errorf("Expected the healthy complex reconciled, unit 1 is %q", got)
	}
}
