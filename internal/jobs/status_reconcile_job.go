package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"kvadrat-crm/inventory/internal/constants"
	"kvadrat-crm/inventory/internal/metrics"
	"kvadrat-crm/inventory/internal/models/dtos"
	"kvadrat-crm/inventory/internal/models/entities"
)

// complexLister and gridSyncer are the slices of the repository and live
// grid service the job actually uses.
type complexLister interface {
	ListAll(ctx context.Context) ([]entities.ResidentialComplex, error)
}

type gridSyncer interface {
	GetStatusGrid(ctx context.Context, cx *entities.ResidentialComplex) (*dtos.StatusGrid, error)
	LeadIntakeUnits(ctx context.Context, cx *entities.ResidentialComplex) (map[string]bool, error)
	SetStatus(ctx context.Context, cx *entities.ResidentialComplex, blockName string, floor int, unitNumber, status string) (bool, error)
}

// StatusReconcileJob keeps the booking grid consistent with the lead intake
// sheet. It is level triggered: each pass compares current state of both
// sheets and writes only the cells that disagree, so a pass over unchanged
// sources is a no-op and repeated passes converge.
type StatusReconcileJob struct {
	complexRepo  complexLister
	liveGrid     gridSyncer
	demoteToFree bool
	metricsReg   *metrics.MetricsRegistry

	mu sync.Mutex // one pass at a time; a slow pass must not overlap the next tick
}

func NewStatusReconcileJob(complexRepo complexLister, liveGrid gridSyncer) *StatusReconcileJob {
	return &StatusReconcileJob{
		complexRepo: complexRepo,
		liveGrid:    liveGrid,
		// Freeing a unit on intake disappearance is destructive for sheets
		// where managers clear processed leads by hand, so it can be turned
		// off without disabling reservation sync.
		demoteToFree: os.Getenv("RECONCILE_DEMOTE_TO_FREE") != "false",
	}
}

// WithMetrics attaches the Prometheus registry. Optional; tests run without.
func (j *StatusReconcileJob) WithMetrics(reg *metrics.MetricsRegistry) *StatusReconcileJob {
	j.metricsReg = reg
	return j
}

// Run executes one reconciliation pass over every complex. A failing complex
// is logged and skipped, the rest of the pass continues.
func (j *StatusReconcileJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	start := time.Now()
	log.Printf("[StatusReconcileJob] Starting reconciliation at %s", start.Format(time.RFC3339))

	complexes, err := j.complexRepo.ListAll(ctx)
	if err != nil {
		log.Printf("[StatusReconcileJob] Error fetching complexes: %v", err)
		return fmt.Errorf("failed to fetch complexes: %w", err)
	}

	totalChanged := 0
	for i := range complexes {
		changed, err := j.ReconcileComplex(ctx, &complexes[i])
		if err != nil {
			log.Printf("[StatusReconcileJob] Error reconciling %s: %v", complexes[i].Slug, err)
			continue
		}
		totalChanged += changed
	}

	if j.metricsReg != nil {
		j.metricsReg.ReconcileCellsTotal.Add(float64(totalChanged))
		j.metricsReg.ReconcileJobDuration.Observe(time.Since(start).Seconds())
	}

	log.Printf("[StatusReconcileJob] Completed reconciliation in %s. Cells changed: %d",
		time.Since(start).Truncate(time.Millisecond), totalChanged)
	return nil
}

// ReconcileComplex runs one pass for a single complex (exported for manual
// triggering). Returns the number of status cells written.
func (j *StatusReconcileJob) ReconcileComplex(ctx context.Context, cx *entities.ResidentialComplex) (int, error) {
	intake, err := j.liveGrid.LeadIntakeUnits(ctx, cx)
	if err != nil {
		return 0, fmt.Errorf("failed to load lead intake: %w", err)
	}
	grid, err := j.liveGrid.GetStatusGrid(ctx, cx)
	if err != nil {
		return 0, fmt.Errorf("failed to load booking grid: %w", err)
	}

	changed := 0
	for _, row := range grid.Rows {
		var target string
		switch {
		case intake[row.UnitNumber] && row.Status != constants.UnitStatusReserved:
			target = constants.UnitStatusReserved
		case !intake[row.UnitNumber] && row.Status == constants.UnitStatusReserved && j.demoteToFree:
			// Only exact "reserved" rows are demotable. "sold" and any
			// hand-entered status stay untouched when the lead disappears.
			target = constants.UnitStatusFree
		default:
			continue
		}

		found, err := j.liveGrid.SetStatus(ctx, cx, row.BlockName, row.Floor, row.UnitNumber, target)
		if err != nil {
			log.Printf("[StatusReconcileJob] Error writing status for %s %s/%d/%s: %v",
				cx.Slug, row.BlockName, row.Floor, row.UnitNumber, err)
			continue
		}
		if found {
			changed++
		}
	}
	return changed, nil
}

// RunScheduled runs reconciliation on a fixed interval until the context is
// cancelled. The initial delay lets the boot-time cache warmup finish first.
func (j *StatusReconcileJob) RunScheduled(ctx context.Context, interval, initialDelay time.Duration) {
	select {
	case <-time.After(initialDelay):
	case <-ctx.Done():
		return
	}

	if err := j.Run(ctx); err != nil {
		log.Printf("[StatusReconcileJob] Error in initial run: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[StatusReconcileJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[StatusReconcileJob] Shutting down scheduled reconciliation")
			return
		}
	}
}
