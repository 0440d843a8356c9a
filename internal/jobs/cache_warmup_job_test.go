package jobs

import (
	"context"
	"testing"

	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/models/entities"
)

type fakeUnitRepo struct {
	blockAreas map[string][]entities.BlockArea
}

func (f *fakeUnitRepo) ListBlockAreas(ctx context.Context, complexID string) ([]entities.BlockArea, error) {
	return f.blockAreas[complexID], nil
}

type fakePlanWarmer struct {
	calls map[string][]dtos.WarmupPair
}

func (f *fakePlanWarmer) WarmUp(ctx context.Context, complexName string, pairs []dtos.WarmupPair) {
	if f.calls == nil {
		f.calls = map[string][]dtos.WarmupPair{}
	}
	f.calls[complexName] = pairs
}

func TestCacheWarmup_WarmsGridsAndPlans(t *testing.T) {
	repo := &fakeComplexRepo{complexes: []entities.ResidentialComplex{
		{ID: "cx-1", Name: "Бахор", Slug: "бахор"},
	}}
	area := 65.5
	units := &fakeUnitRepo{blockAreas: map[string][]entities.BlockArea{
		"cx-1": {
			{BlockName: "Блок А", AreaSqm: &area},
			{BlockName: "Блок Б", AreaSqm: nil}, // no area, skipped
		},
	}}
	grid := &fakeGrid{
		statuses: map[string]map[string]string{"бахор": {"1": "free"}},
		intake:   map[string]map[string]bool{"бахор": {}},
	}
	planCache := &fakePlanWarmer{}

	job := NewCacheWarmupJob(repo, units, grid, planCache)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pairs := planCache.calls["Бахор"]
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 warmup pair, got %v", pairs)
	}
	if pairs[0].BlockName != "Блок А" || pairs[0].Area != "65.50" {
		t.Errorf("Expected (Блок А, 65.50), got %+v", pairs[0])
	}
}
