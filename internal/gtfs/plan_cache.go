package gtfs

import (
	"fmt"
	"time"

	"github.com/bluele/gcache"

	"wayfinder.onebusaway.org/internal/transit"
)

// planCache memoises successful plans per snapshot generation. A nil *planCache is
// a disabled cache.
type planCache struct {
	cache gcache.Cache
}

func newPlanCache(size int, ttl time.Duration) *planCache {
	if size <= 0 {
		return nil
	}
	builder := gcache.New(size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}
	return &planCache{cache: builder.Build()}
}

// planCacheKey formats coordinates exactly, so only identical requests share a plan.
func planCacheKey(generation uint64, origin, destination transit.Coordinate, maxWalkMeters float64) string {
	return fmt.Sprintf("%d|%v,%v|%v,%v|%v",
		generation, origin.Lat, origin.Lng, destination.Lat, destination.Lng, maxWalkMeters)
}

func (c *planCache) get(key string) (transit.Plan, bool) {
	if c == nil {
		return transit.Plan{}, false
	}
	cached, err := c.cache.Get(key)
	if err != nil {
		return transit.Plan{}, false
	}
	plan, ok := cached.(transit.Plan)
	return plan, ok
}

func (c *planCache) set(key string, plan transit.Plan) {
	if c == nil {
		return
	}
	_ = c.cache.Set(key, plan)
}

func (c *planCache) purge() {
	if c == nil {
		return
	}
	c.cache.Purge()
}

func (c *planCache) len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len(true)
}
