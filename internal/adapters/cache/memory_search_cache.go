package cache

import (
	"context"
	"delivery-area-service/internal/domain"
	"sync"
)

// MemorySearchCache is an unbounded map-backed SearchCache for tests and
// local runs.
type MemorySearchCache struct {
	mu      sync.Mutex
	entries map[string][]domain.Area

	GetErr error
	PutErr error
	Gets   int
	Puts   int
}

func NewMemorySearchCache() *MemorySearchCache {
	return &MemorySearchCache{entries: make(map[string][]domain.Area)}
}

func (c *MemorySearchCache) Get(ctx context.Context, key string) ([]domain.Area, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Gets++
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	areas, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return cloneAreas(areas), true, nil
}

func (c *MemorySearchCache) Put(ctx context.Context, key string, areas []domain.Area) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Puts++
	if c.PutErr != nil {
		return c.PutErr
	}
	c.entries[key] = cloneAreas(areas)
	return nil
}

// Keys returns the stored keys in no particular order.
func (c *MemorySearchCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

func cloneAreas(areas []domain.Area) []domain.Area {
	out := make([]domain.Area, 0, len(areas))
	for _, a := range areas {
		out = append(out, a.Clone())
	}
	return out
}
