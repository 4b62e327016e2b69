package container

import (
	"reflect"
	"sync"
)

// instanceCache maps keys to built instances. The first write for a key
// wins; later writers get the stored value back.
type instanceCache struct {
	mu    sync.RWMutex
	items map[reflect.Type]any

	// values stored through store, oldest first
	created []any
}

func newInstanceCache() *instanceCache {
	return &instanceCache{items: make(map[reflect.Type]any)}
}

func (c *instanceCache) load(key reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// store keeps v unless another value got there first. It returns the
// cached value and whether v is it.
func (c *instanceCache) store(key reflect.Type, v any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing, false
	}
	c.items[key] = v
	c.created = append(c.created, v)
	return v, true
}

// set overwrites the value for key without tracking it as created.
func (c *instanceCache) set(key reflect.Type, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = v
}

// drain empties the cache and returns the created values, oldest first.
func (c *instanceCache) drain() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	created := c.created
	c.items = make(map[reflect.Type]any)
	c.created = nil
	return created
}

func (c *instanceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
