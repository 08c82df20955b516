// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lru provides a thread-safe, capacity bounded LRU cache.
package lru

import (
	"slices"
	"sync"

	"github.com/luxfi/lrucache"
)

var _ cache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

type subscription[K comparable, V any] struct {
	id      cache.SubscriptionID
	handler cache.EvictionHandler[K, V]
}

// Cache is a thread-safe LRU cache holding at most Capacity entries.
//
// Every operation, reads included, is serialized by a single lock so the
// index and the recency order are always observed together.
type Cache[K comparable, V any] struct {
	lock     sync.Mutex
	capacity int
	index    map[K]int
	order    arena[K, V]

	// nilableKey is false for key kinds that can never hold nil.
	nilableKey bool

	// handlers is replaced, never mutated, so Add can invoke a snapshot of
	// it after releasing lock.
	handlers []subscription[K, V]
	nextID   cache.SubscriptionID
}

// New creates an empty LRU cache with the specified capacity.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, cache.ErrInvalidCapacity
	}
	return &Cache[K, V]{
		capacity:   capacity,
		index:      make(map[K]int, capacity),
		order:      newArena[K, V](capacity),
		nilableKey: cache.CanBeNil[K](),
	}, nil
}

// NewWithOnEvict creates a cache with onEvict already subscribed.
func NewWithOnEvict[K comparable, V any](capacity int, onEvict cache.EvictionHandler[K, V]) (*Cache[K, V], error) {
	c, err := New[K, V](capacity)
	if err != nil {
		return nil, err
	}
	c.Subscribe(onEvict)
	return c, nil
}

// Add inserts or overwrites key, marking it most recently used. When a new
// key arrives at capacity the least recently used entry is evicted and the
// eviction handlers are called before Add returns.
//
// Handlers run once the lock is released, so the new key is already present
// and the evicted one already gone when they are called.
func (c *Cache[K, V]) Add(key K, value V) error {
	if c.nilableKey && cache.IsNilKey(key) {
		return cache.ErrNilKey
	}

	c.lock.Lock()
	if i, ok := c.index[key]; ok {
		c.order.slots[i].value = value
		c.order.moveToFront(i)
		c.lock.Unlock()
		return nil
	}

	if c.order.len() < c.capacity {
		c.index[key] = c.order.pushFront(key, value)
		c.lock.Unlock()
		return nil
	}

	i, evictedKey, evictedValue := c.order.replaceBack(key, value)
	delete(c.index, evictedKey)
	c.index[key] = i
	handlers := c.handlers
	c.lock.Unlock()

	for _, s := range handlers {
		s.handler(evictedKey, evictedValue)
	}
	return nil
}

// Get returns the value for key and marks it most recently used.
// A nil key is never stored, so looking one up is a miss rather than an
// error.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(i)
	return c.order.slots[i].value, true
}

// Count returns the number of elements in the cache.
func (c *Cache[K, V]) Count() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.order.len()
}

// Capacity returns the maximum number of elements in the cache.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// PortionFilled returns fraction of cache currently filled.
func (c *Cache[K, V]) PortionFilled() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return float64(c.order.len()) / float64(c.capacity)
}

// Keys returns the cached keys ordered from most to least recently used.
// It does not count as a use of any key.
func (c *Cache[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.order.keys()
}

// Subscribe registers handler to be called, in registration order, with
// every evicted entry. A nil handler is ignored and gets the zero ID.
func (c *Cache[K, V]) Subscribe(handler cache.EvictionHandler[K, V]) cache.SubscriptionID {
	if handler == nil {
		return 0
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.nextID++
	s := subscription[K, V]{id: c.nextID, handler: handler}
	c.handlers = append(slices.Clip(c.handlers), s)
	return s.id
}

// Unsubscribe removes the handler registered under id.
func (c *Cache[K, V]) Unsubscribe(id cache.SubscriptionID) {
	if id == 0 {
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	i := slices.IndexFunc(c.handlers, func(s subscription[K, V]) bool {
		return s.id == id
	})
	if i < 0 {
		return
	}
	c.handlers = slices.Delete(slices.Clone(c.handlers), i, i+1)
}
