package tools

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps built tool sets keyed by launched-app id. Builds for the same
// key are serialized so a set is constructed at most once while cached.
type Cache struct {
	mu   sync.Mutex
	sets *lru.Cache[string, *Set]
}

// NewCache returns a cache holding at most size sets.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, *Set](size)
	if err != nil {
		return nil, fmt.Errorf("tools: create cache: %w", err)
	}
	return &Cache{sets: c}, nil
}

// GetOrBuild returns the cached set for key, building and caching it on a miss.
// A failed build is not cached.
func (c *Cache) GetOrBuild(key string, build func() (*Set, error)) (*Set, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sets.Get(key); ok {
		return s, nil
	}
	s, err := build()
	if err != nil {
		return nil, err
	}
	c.sets.Add(key, s)
	return s, nil
}

// Invalidate drops the set for key.
func (c *Cache) Invalidate(key string) {
	c.sets.Remove(key)
}

// Len returns the number of cached sets.
func (c *Cache) Len() int {
	return c.sets.Len()
}
