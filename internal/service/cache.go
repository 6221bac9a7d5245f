package service

import (
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

type cacheKey struct {
	start   string
	end     string
	compare bool
}

type cacheEntry struct {
	report   *domain.AnalyticsReport
	storedAt time.Time
}

// reportCache memoizes computed reports for a short TTL. Capacity is
// bounded; when full, the oldest entry is evicted.
type reportCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

func newReportCache(ttl time.Duration, max int) *reportCache {
	if max <= 0 {
		max = 32
	}
	return &reportCache{
		entries: make(map[cacheKey]cacheEntry, max),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

func (c *reportCache) get(key cacheKey) (*domain.AnalyticsReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.report, true
}

func (c *reportCache) put(key cacheKey, report *domain.AnalyticsReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.max {
		var (
			oldestKey cacheKey
			oldestAt  time.Time
			found     bool
		)
		for k, e := range c.entries {
			if !found || e.storedAt.Before(oldestAt) {
				oldestKey, oldestAt, found = k, e.storedAt, true
			}
		}
		if found {
			delete(c.entries, oldestKey)
		}
	}
	c.entries[key] = cacheEntry{report: report, storedAt: c.now()}
}

func (c *reportCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry, c.max)
}
