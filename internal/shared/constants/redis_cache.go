package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: gatherly:{module}:{operation}:{identifier}:{params?}

const CACHE_PREFIX = "gatherly"

// ================== DISCOVERY MODULE ==================

const (
	CACHE_KEY_NEARBY = CACHE_PREFIX + ":discovery:nearby" // + :lat:lng:radius
	TTL_NEARBY       = 1 * time.Minute
)

// NearbyKey builds the cache key for a proximity search. Coordinates are
// rounded to three decimals (~100 m) so close-by searchers share entries.
func NearbyKey(lat, lng, radiusKm float64) string {
	return fmt.Sprintf("%s:%.3f:%.3f:%.1f", CACHE_KEY_NEARBY, lat, lng, radiusKm)
}
