// Package cache provides a size-bounded TTL cache for upstream responses
// to reduce repeated Naver API calls.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Default sizing for response caches.
const (
	DefaultTTL      = 10 * time.Minute
	DefaultMaxItems = 1000
)

// TTLCache is a thread-safe LRU cache whose entries expire after a fixed TTL.
type TTLCache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewTTLCache creates a cache holding at most maxItems entries for ttl each.
// A non-positive maxItems falls back to DefaultMaxItems.
func NewTTLCache[K comparable, V any](ttl time.Duration, maxItems int) *TTLCache[K, V] {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &TTLCache[K, V]{
		lru: expirable.NewLRU[K, V](maxItems, nil, ttl),
	}
}

// Get retrieves a value if present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Set stores a value, evicting the least recently used entry when full.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Count returns the number of live entries.
func (c *TTLCache[K, V]) Count() int {
	return c.lru.Len()
}
