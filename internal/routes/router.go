package routes

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"kvadrat-crm/inventory/internal/api"
	"kvadrat-crm/inventory/internal/db"
	"kvadrat-crm/inventory/internal/jobs"
	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/metrics"
	"kvadrat-crm/inventory/internal/middleware"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps)

	// Background jobs: boot-time cache warmup, then scheduled reconciliation
	jobs.InitializeJobs(
		context.Background(),
		deps.Repo.Complex,
		deps.Repo.Unit,
		deps.Services.LiveGrid,
		deps.Services.PlanCache,
		metricsReg,
		reconcileInterval(),
	)

	RegisterAPIRoutes(r, handlers)

	return r
}

func reconcileInterval() time.Duration {
	if raw := os.Getenv("RECONCILE_INTERVAL_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
		logging.Warn("Invalid RECONCILE_INTERVAL_SECONDS, using default", "value", raw)
	}
	return 5 * time.Minute
}
