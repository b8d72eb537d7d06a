package utils

import (
	"sync"
	"time"
)

// CacheEntry represents a cached value with expiration
type CacheEntry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// IsExpired checks if the cache entry has expired
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache represents an in-memory cache with TTL support
type Cache struct {
	data       map[string]*CacheEntry
	mutex      sync.RWMutex
	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewCache creates a new in-memory cache and starts its sweeper. Call
// Close to stop the sweeper.
func NewCache(defaultTTL time.Duration) *Cache {
	cache := &Cache{
		data:       make(map[string]*CacheEntry),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}

	go cache.cleanupExpired(time.Minute)

	return cache
}

// Get retrieves a value from the cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	entry, exists := c.data[key]
	if exists && !entry.IsExpired() {
		value := entry.Value
		c.mutex.RUnlock()
		return value, true
	}
	c.mutex.RUnlock()

	if exists {
		c.deleteIfExpired(key)
	}
	return nil, false
}

// deleteIfExpired removes key unless it was refreshed after the caller
// last looked at it.
func (c *Cache) deleteIfExpired(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, exists := c.data[key]; exists && entry.IsExpired() {
		delete(c.data, key)
	}
}

// Touch extends the life of an existing entry by the default TTL.
func (c *Cache) Touch(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[key]
	if !exists || entry.IsExpired() {
		return false
	}
	entry.ExpiresAt = time.Now().Add(c.defaultTTL)
	return true
}

// Set stores a value in the cache with default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value in the cache with custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = &CacheEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// Delete removes a value from the cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

// Size returns the number of items in the cache
func (c *Cache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.data)
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanupExpired removes expired entries from the cache
func (c *Cache) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mutex.Lock()
			now := time.Now()
			for key, entry := range c.data {
				if now.After(entry.ExpiresAt) {
					delete(c.data, key)
				}
			}
			c.mutex.Unlock()
		}
	}
}
