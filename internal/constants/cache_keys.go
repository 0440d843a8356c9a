package constants

import "fmt"

// Cache key builders. The live spreadsheet cache is namespaced per complex so
// that a write-then-invalidate for one complex never touches another.
const (
	cacheKeyStatusGrid = "livegrid:status:%s"
	cacheKeyLeadIntake = "livegrid:intake:%s"
	cacheKeyPriceGrid  = "livegrid:price:%s"
)

func StatusGridCacheKey(complexSlug string) string {
	return fmt.Sprintf(cacheKeyStatusGrid, complexSlug)
}

func LeadIntakeCacheKey(complexSlug string) string {
	return fmt.Sprintf(cacheKeyLeadIntake, complexSlug)
}

func PriceGridCacheKey(complexSlug string) string {
	return fmt.Sprintf(cacheKeyPriceGrid, complexSlug)
}
