package cache

import "sync"

// Cache is a string map safe for concurrent use.
type Cache struct {
	values map[string]string
	mutex  sync.RWMutex
}

func New() *Cache {
	return &Cache{
		values: map[string]string{},
	}
}

func (c *Cache) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	value, ok := c.values[key]
	return value, ok
}

// Swap stores value and returns the value it replaced, if any.
func (c *Cache) Swap(key string, value string) (previous string, loaded bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	previous, loaded = c.values[key]
	c.values[key] = value
	return previous, loaded
}
