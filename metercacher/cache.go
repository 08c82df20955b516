// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercacher provides metered cache implementations.
package metercacher

import (
	"sync"
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/lrucache"
)

var _ cache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Cache wraps a Cacher with metrics.
type Cache[K comparable, V any] struct {
	cache.Cacher[K, V]
	metrics      *cacheMetrics
	subscription cache.SubscriptionID

	// sizeLock pairs each Count read with its gauge writes so the gauges end
	// on the most recent read.
	sizeLock sync.Mutex
}

// New creates a new metered cache wrapper. Evictions of c are counted until
// Close is called.
func New[K comparable, V any](
	namespace string,
	registry metric.Registry,
	c cache.Cacher[K, V],
) (*Cache[K, V], error) {
	metrics, err := newMetrics(namespace, registry)
	if err != nil {
		return nil, err
	}
	mc := &Cache[K, V]{
		Cacher:  c,
		metrics: metrics,
	}
	mc.subscription = c.Subscribe(func(K, V) {
		mc.metrics.evictionCount.Inc()
	})
	mc.updateSize()
	return mc, nil
}

func (c *Cache[K, V]) Add(key K, value V) error {
	start := time.Now()
	err := c.Cacher.Add(key, value)
	addDuration := time.Since(start)

	if err != nil {
		c.metrics.addErrorCount.Inc()
		return err
	}
	c.metrics.addCount.Inc()
	c.metrics.addTime.Add(float64(addDuration))
	c.updateSize()
	return nil
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := c.Cacher.Get(key)
	getDuration := time.Since(start)

	if has {
		c.metrics.getCount.With(hitLabels).Inc()
		c.metrics.getTime.With(hitLabels).Add(float64(getDuration))
	} else {
		c.metrics.getCount.With(missLabels).Inc()
		c.metrics.getTime.With(missLabels).Add(float64(getDuration))
	}

	return value, has
}

// Close stops counting evictions of the wrapped cache.
func (c *Cache[_, _]) Close() {
	c.Cacher.Unsubscribe(c.subscription)
}

func (c *Cache[_, _]) updateSize() {
	c.sizeLock.Lock()
	defer c.sizeLock.Unlock()

	count := c.Cacher.Count()
	c.metrics.len.Set(float64(count))
	c.metrics.portionFilled.Set(float64(count) / float64(c.Cacher.Capacity()))
}
