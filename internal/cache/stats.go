package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"wolfgoatpig/internal/api"
)

// StatsFreshness is how long a cached statistics entry stays usable.
const StatsFreshness = 5 * time.Minute

// DefaultStatsCapacity bounds the statistics cache.
const DefaultStatsCapacity = 64

// StatsCache caches player statistics keyed by profile id. Entries expire
// after the freshness window; an expired entry reads as a miss.
type StatsCache struct {
	entries *expirable.LRU[string, api.PlayerStatistics]
}

// NewStatsCache creates a statistics cache. A zero ttl uses StatsFreshness.
func NewStatsCache(capacity int, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = StatsFreshness
	}
	return &StatsCache{
		entries: expirable.NewLRU[string, api.PlayerStatistics](capacity, nil, ttl),
	}
}

// Get returns fresh statistics for the profile, if cached.
func (c *StatsCache) Get(profileID string) (api.PlayerStatistics, bool) {
	return c.entries.Get(profileID)
}

// Put stores statistics for the profile, restarting its freshness window.
func (c *StatsCache) Put(profileID string, stats api.PlayerStatistics) {
	c.entries.Add(profileID, stats)
}

// Invalidate drops one profile's statistics.
func (c *StatsCache) Invalidate(profileID string) {
	c.entries.Remove(profileID)
}

// Purge drops all cached statistics.
func (c *StatsCache) Purge() {
	c.entries.Purge()
}
