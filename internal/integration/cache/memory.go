package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goal-planner/backend/internal/application/adapter"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// memoryCache implements adapter.Cache in process memory. Expired items are
// dropped when read.
type memoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryCache creates an in-process cache.
func NewMemoryCache(clock adapter.Clock) adapter.Cache {
	return &memoryCache{
		items: make(map[string]memoryItem),
		now:   clock.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		c.mu.Lock()
		if current, ok := c.items[key]; ok && current.expiresAt.Equal(item.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, true, nil
}

func (c *memoryCache) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: make([]byte, len(value))}
	copy(item.value, value)
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return nil
}
