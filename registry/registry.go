// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry owns shared LRU caches, one per key type, value type and
// capacity, so callers across a process can reach the same instance.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/luxfi/lrucache/lru"
)

type instanceKey struct {
	key      reflect.Type
	value    reflect.Type
	capacity int
}

// Registry lazily constructs and holds shared caches.
type Registry struct {
	mu        sync.Mutex
	log       *zap.Logger
	instances map[instanceKey]any
}

// New creates an empty Registry. A nil log disables logging.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:       log,
		instances: make(map[instanceKey]any),
	}
}

// Get returns the cache registered for K, V and capacity, constructing it
// on first use.
func Get[K comparable, V any](r *Registry, capacity int) (*lru.Cache[K, V], error) {
	ik := instanceKey{
		key:      reflect.TypeFor[K](),
		value:    reflect.TypeFor[V](),
		capacity: capacity,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.instances[ik]; ok {
		return c.(*lru.Cache[K, V]), nil
	}

	c, err := lru.New[K, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("creating cache[%s, %s]: %w", ik.key, ik.value, err)
	}
	r.instances[ik] = c
	r.log.Debug("created cache",
		zap.Stringer("key", ik.key),
		zap.Stringer("value", ik.value),
		zap.Int("capacity", capacity),
	)
	return c, nil
}

// Reset drops every registered cache. Later calls to Get build fresh ones;
// caches already handed out keep working but are no longer shared.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Debug("resetting cache registry", zap.Int("caches", len(r.instances)))
	r.instances = make(map[instanceKey]any)
}

// Len returns the number of registered caches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}
