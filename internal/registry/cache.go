// ABOUTME: Short-TTL singleton cache shielding the upstream registry from request load
// ABOUTME: Whole-entry replacement with a single-flight guard on refreshes

package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher is the upstream dependency of the cache. *Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// entry is one immutable cache fill. Entries are replaced whole; nothing
// mutates a stored entry in place, so readers never observe a torn write.
type entry struct {
	fetchedAt time.Time
	records   []Record
}

// Cache holds the most recent successful catalog fetch for a bounded window.
// Within the TTL it serves without a network call; past it, the next request
// refetches. A failed refresh propagates to the caller rather than silently
// serving stale data.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	current *entry

	// group collapses concurrent refreshes of the expired entry into one
	// upstream call. Duplicate fetches would be harmless (last writer wins)
	// but are wasted upstream load.
	group singleflight.Group

	// now is injectable for TTL tests.
	now func() time.Time
}

// NewCache creates a catalog cache over fetcher with the given TTL.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  slog.Default().With("component", "registry"),
		now:     time.Now,
	}
}

// GetAll returns the cached catalog, refreshing it first when stale or empty.
func (c *Cache) GetAll(ctx context.Context) ([]Record, error) {
	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()

	if cur != nil && c.now().Sub(cur.fetchedAt) < c.ttl {
		return cur.records, nil
	}

	result, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// Re-check under the flight: another caller may have just refilled.
		c.mu.RLock()
		cur := c.current
		c.mu.RUnlock()
		if cur != nil && c.now().Sub(cur.fetchedAt) < c.ttl {
			return cur.records, nil
		}

		records, err := c.fetcher.Fetch(ctx)
		if err != nil {
			c.logger.Warn("catalog refresh failed", "error", err)
			return nil, err
		}

		fresh := &entry{fetchedAt: c.now(), records: records}
		c.mu.Lock()
		c.current = fresh
		c.mu.Unlock()

		c.logger.Debug("catalog refreshed", "plugins", len(records))
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]Record), nil
}

// GetByID returns the record with the given ID, or false when absent.
func (c *Cache) GetByID(ctx context.Context, id string) (Record, bool, error) {
	records, err := c.GetAll(ctx)
	if err != nil {
		return Record{}, false, err
	}

	for _, r := range records {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// Invalidate drops the cached entry, forcing the next GetAll to refetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}
