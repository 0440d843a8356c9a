package api

import (
	"os"

	"kvadrat-crm/inventory/internal/common"
	"kvadrat-crm/inventory/internal/db"
	"kvadrat-crm/inventory/internal/db/repositories"
	"kvadrat-crm/inventory/internal/importer"
	"kvadrat-crm/inventory/internal/logging"
	"kvadrat-crm/inventory/internal/metrics"
	"kvadrat-crm/inventory/internal/providers"
	"kvadrat-crm/inventory/internal/services"
)

type Repositories struct {
	Complex  *repositories.ComplexRepository
	Unit     *repositories.UnitRepository
	Price    *repositories.PriceRepository
	Contract *repositories.ContractRepository
}

type Services struct {
	Cache     common.CacheInterface
	Sheets    providers.SheetsAPI
	LiveGrid  *services.LiveGridService
	PlanCache *services.PlanCacheService
	Importer  *importer.Importer
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	if err := importer.ValidateAliases(); err != nil {
		return nil, err
	}

	repos := &Repositories{
		Complex:  repositories.NewComplexRepository(db.DB),
		Unit:     repositories.NewUnitRepository(db.DB),
		Price:    repositories.NewPriceRepository(db.DB),
		Contract: repositories.NewContractRepository(db.DB),
	}

	var cache common.CacheInterface
	if os.Getenv("CACHE_BACKEND") == "redis" {
		redisCache, err := common.NewRedisCacheService(common.NewRedisClient())
		if err != nil {
			logging.Warn("Redis cache unavailable, falling back to in-memory", "error", err.Error())
			cache = common.NewCacheService(600, 1200)
		} else {
			cache = redisCache
		}
	} else {
		cache = common.NewCacheService(600, 1200)
	}

	sheets := providers.NewGoogleSheetsProvider()
	planCache := services.NewPlanCacheService(providers.NewFitzRasterizer())
	planCache.OnRender = metricsReg.PlanRendersTotal.Inc

	svcs := &Services{
		Cache:     cache,
		Sheets:    sheets,
		LiveGrid:  services.NewLiveGridService(sheets, cache),
		PlanCache: planCache,
		Importer:  importer.New(db.PgDB),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
