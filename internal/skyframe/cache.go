package skyframe

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hortyhort/moonsim/internal/metrics"
)

// CacheConfig holds frame cache configuration.
type CacheConfig struct {
	Step   time.Duration // frame alignment interval (default: 1s)
	Buffer time.Duration // keep entries this long after insertion (default: 60s)
}

// Cache is a step-aligned rolling cache of recently computed frames.
// Purely an amortization for concurrent stream clients hitting the same tick;
// a miss is answered by recomputing, which is always correct.
// Safe for concurrent use.
//
// Entries age out by insertion time, not frame timestamp: accelerated
// simulation clocks cache frames for instants years ahead of wall time, and
// those must be reclaimed on the same schedule as everything else.
type Cache struct {
	mu      sync.RWMutex
	entries map[time.Time]cacheEntry

	config CacheConfig
	gen    *Generator
	logger *slog.Logger
	now    func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	frame    Frame
	storedAt time.Time
}

// NewCache creates a frame cache backed by the given generator.
func NewCache(config CacheConfig, gen *Generator, logger *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[time.Time]cacheEntry),
		config:  config,
		gen:     gen,
		logger:  logger,
		now:     time.Now,
	}
}

// RoundToStep rounds a timestamp down to the nearest step boundary in UTC,
// so concurrent lookups for the same tick share one entry.
func (c *Cache) RoundToStep(t time.Time) time.Time {
	return t.UTC().Truncate(c.config.Step)
}

// Get returns the frame for the given instant, computing and caching it on a
// miss. The instant is rounded to the step boundary.
func (c *Cache) Get(t time.Time) Frame {
	key := c.RoundToStep(t)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
		metrics.IncCacheHits()
		return e.frame
	}

	c.misses.Add(1)
	metrics.IncCacheMisses()

	f := c.gen.At(key)

	c.mu.Lock()
	c.entries[key] = cacheEntry{frame: f, storedAt: c.now()}
	size := len(c.entries)
	c.mu.Unlock()
	metrics.SetCacheEntries(size)

	return f
}

// prewarm computes the next generation horizon of frames in parallel and
// stores any not already cached, so real-time streams hit without waiting.
func (c *Cache) prewarm(ctx context.Context, from time.Time) {
	frames := c.gen.ComputeRange(ctx, c.RoundToStep(from))

	stored := c.now()
	c.mu.Lock()
	for _, f := range frames {
		if _, ok := c.entries[f.Timestamp]; !ok {
			c.entries[f.Timestamp] = cacheEntry{frame: f, storedAt: stored}
		}
	}
	size := len(c.entries)
	c.mu.Unlock()
	metrics.SetCacheEntries(size)
}

// EvictBefore removes entries inserted earlier than cutoff minus the buffer,
// regardless of the simulation instant they hold.
// Called periodically by the owner; returns the number removed.
func (c *Cache) EvictBefore(cutoff time.Time) int {
	limit := cutoff.Add(-c.config.Buffer)
	var removed int

	c.mu.Lock()
	for ts, e := range c.entries {
		if e.storedAt.Before(limit) {
			delete(c.entries, ts)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		c.evictions.Add(int64(removed))
		metrics.AddCacheEvictions(removed)
		metrics.SetCacheEntries(size)
		c.logger.Debug("frame cache eviction", "entries_removed", removed)
	}

	return removed
}

// Start runs the maintenance loop until ctx is cancelled: an immediate
// prewarm, then eviction and re-prewarm every buffer interval.
func (c *Cache) Start(ctx context.Context) {
	c.prewarm(ctx, c.now())

	ticker := time.NewTicker(c.config.Buffer)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			c.EvictBefore(now)
			c.prewarm(ctx, now)
		case <-ctx.Done():
			return
		}
	}
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	count := len(c.entries)
	var oldest, newest time.Time
	for ts := range c.entries {
		if oldest.IsZero() || ts.Before(oldest) {
			oldest = ts
		}
		if newest.IsZero() || ts.After(newest) {
			newest = ts
		}
	}
	c.mu.RUnlock()

	return CacheStats{
		Entries:         count,
		OldestTimestamp: oldest,
		NewestTimestamp: newest,
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		Evictions:       c.evictions.Load(),
	}
}

// CacheStats holds cache statistics for the stats endpoint.
type CacheStats struct {
	Entries         int       `json:"entries"`
	OldestTimestamp time.Time `json:"oldest_timestamp"`
	NewestTimestamp time.Time `json:"newest_timestamp"`
	Hits            int64     `json:"hits"`
	Misses          int64     `json:"misses"`
	Evictions       int64     `json:"evictions"`
}
