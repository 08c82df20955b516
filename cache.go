// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache provides bounded in-memory caching interfaces.
package cache

import "errors"

var (
	// ErrInvalidCapacity is returned when a cache is constructed with a
	// non-positive capacity.
	ErrInvalidCapacity = errors.New("cache capacity must be positive")

	// ErrNilKey is returned when a nil key is added to a cache.
	ErrNilKey = errors.New("cache key must not be nil")
)

// EvictionHandler is notified with the key and value of an evicted entry.
type EvictionHandler[K comparable, V any] func(key K, value V)

// SubscriptionID identifies a registered EvictionHandler.
type SubscriptionID uint64

// Cacher is a bounded key value store that evicts entries to stay within
// its capacity.
type Cacher[K comparable, V any] interface {
	// Add inserts or overwrites an element in the cache.
	Add(key K, value V) error

	// Get returns the entry with the key, if it exists.
	Get(key K) (V, bool)

	// Count returns the number of elements in the cache.
	Count() int

	// Capacity returns the maximum number of elements the cache holds.
	Capacity() int

	// PortionFilled returns fraction of cache currently filled (0 --> 1).
	PortionFilled() float64

	// Subscribe registers a handler invoked for every eviction.
	Subscribe(handler EvictionHandler[K, V]) SubscriptionID

	// Unsubscribe removes a handler. Unknown IDs are ignored.
	Unsubscribe(id SubscriptionID)
}
