package jobs

import (
	"context"
	"time"

	"kvadrat-crm/inventory/internal/metrics"
)

// InitializeJobs starts the background jobs: a one-shot cache warmup, then
// the scheduled status reconciliation.
func InitializeJobs(
	ctx context.Context,
	complexRepo complexLister,
	unitRepo blockAreaLister,
	liveGrid gridSyncer,
	planCache planWarmer,
	metricsReg *metrics.MetricsRegistry,
	reconcileInterval time.Duration,
) *StatusReconcileJob {
	warmupJob := NewCacheWarmupJob(complexRepo, unitRepo, liveGrid, planCache)
	reconcileJob := NewStatusReconcileJob(complexRepo, liveGrid).WithMetrics(metricsReg)

	go func() {
		warmupJob.Run(ctx)
		// Warmup already primed the grid caches; a short delay keeps the
		// first reconciliation off the boot path.
		reconcileJob.RunScheduled(ctx, reconcileInterval, 30*time.Second)
	}()

	return reconcileJob
}
