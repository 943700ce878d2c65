// ABOUTME: Long-TTL per-plugin cache of rendered README documents
// ABOUTME: Whole-entry replacement under an RWMutex; no in-place mutation

package readme

import (
	"sync"
	"time"
)

// Document is one rendered README: HTML plus the base URL for relative assets.
type Document struct {
	HTML         string `json:"html"`
	AssetBaseURL string `json:"assetBaseUrl,omitempty"`
}

// cacheEntry stores the render timestamp alongside the document.
type cacheEntry struct {
	timestamp time.Time
	doc       Document
}

// Cache holds rendered READMEs keyed by plugin ID. README content changes far
// less often than catalog metadata, so its TTL is hours rather than minutes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration

	now func() time.Time
}

// NewCache creates a README cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached document for a plugin ID if present and fresh.
func (c *Cache) Get(id string) (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || c.now().Sub(e.timestamp) >= c.ttl {
		return Document{}, false
	}
	return e.doc, true
}

// Put stores a freshly rendered document, replacing any prior entry whole.
func (c *Cache) Put(id string, doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry{timestamp: c.now(), doc: doc}
}

// Invalidate drops the entry for one plugin ID.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}
