package jobs

import (
	"context"
	"log"
	"time"

	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/models/entities"
	"kvadrat-crm/inventory/internal/normalize"
)

type blockAreaLister interface {
	ListBlockAreas(ctx context.Context, complexID string) ([]entities.BlockArea, error)
}

type planWarmer interface {
	WarmUp(ctx context.Context, complexName string, pairs []dtos.WarmupPair)
}

// CacheWarmupJob fills the caches at boot so the first user request is not
// the one paying for spreadsheet reads and PDF rendering.
type CacheWarmupJob struct {
	complexRepo complexLister
	unitRepo    blockAreaLister
	liveGrid    gridSyncer
	planCache   planWarmer
}

func NewCacheWarmupJob(complexRepo complexLister, unitRepo blockAreaLister, liveGrid gridSyncer, planCache planWarmer) *CacheWarmupJob {
	return &CacheWarmupJob{
		complexRepo: complexRepo,
		unitRepo:    unitRepo,
		liveGrid:    liveGrid,
		planCache:   planCache,
	}
}

// Run warms the status grid cache and the plan artifact cache for every
// complex. All failures are logged and skipped; warmup must never prevent
// the server from coming up.
func (j *CacheWarmupJob) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[CacheWarmupJob] Starting cache warmup at %s", start.Format(time.RFC3339))

	complexes, err := j.complexRepo.ListAll(ctx)
	if err != nil {
		log.Printf("[CacheWarmupJob] Error fetching complexes: %v", err)
		return err
	}

	for i := range complexes {
		cx := &complexes[i]

		if _, err := j.liveGrid.GetStatusGrid(ctx, cx); err != nil {
			log.Printf("[CacheWarmupJob] Error warming booking grid for %s: %v", cx.Slug, err)
		}
		if _, err := j.liveGrid.LeadIntakeUnits(ctx, cx); err != nil {
			log.Printf("[CacheWarmupJob] Error warming lead intake for %s: %v", cx.Slug, err)
		}

		blockAreas, err := j.unitRepo.ListBlockAreas(ctx, cx.ID)
		if err != nil {
			log.Printf("[CacheWarmupJob] Error listing block areas for %s: %v", cx.Slug, err)
			continue
		}
		pairs := make([]dtos.WarmupPair, 0, len(blockAreas))
		for _, ba := range blockAreas {
			if ba.AreaSqm == nil {
				continue
			}
			pairs = append(pairs, dtos.WarmupPair{
				BlockName: ba.BlockName,
				Area:      normalize.AreaFloat(*ba.AreaSqm),
			})
		}
		j.planCache.WarmUp(ctx, cx.Name, pairs)
	}

	log.Printf("[CacheWarmupJob] Completed cache warmup in %s for %d complexes",
		time.Since(start).Truncate(time.Millisecond), len(complexes))
	return nil
}
