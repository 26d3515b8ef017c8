package service

import (
	"sync"
	"time"
)

// StockCache holds last-known stock figures per product. Entries are only
// trusted for a bounded window; past the TTL they read as unknown, so a stale
// figure can never gate cart decisions indefinitely. The cache is advisory
// and safe to discard at any time.
type StockCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]stockEntry
	now     func() time.Time
}

type stockEntry struct {
	available int
	fetchedAt time.Time
}

func NewStockCache(ttl time.Duration) *StockCache {
	return &StockCache{
		ttl:     ttl,
		entries: make(map[string]stockEntry),
		now:     time.Now,
	}
}

// Put records a freshly fetched stock figure.
func (c *StockCache) Put(productID string, available int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[productID] = stockEntry{available: available, fetchedAt: c.now()}
}

// Lookup returns the cached figure if it is still within the TTL.
func (c *StockCache) Lookup(productID string) (available int, known bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[productID]
	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return 0, false
	}
	return entry.available, true
}

// Forget drops a product's entry.
func (c *StockCache) Forget(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productID)
}
