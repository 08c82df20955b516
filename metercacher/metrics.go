// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metercacher

import (
	"errors"

	"github.com/luxfi/metric"
)

const (
	resultLabel = "result"
	hitResult   = "hit"
	missResult  = "miss"
)

var (
	resultLabels = []string{resultLabel}
	hitLabels    = metric.Labels{resultLabel: hitResult}
	missLabels   = metric.Labels{resultLabel: missResult}
)

type cacheMetrics struct {
	getCount metric.CounterVec
	getTime  metric.CounterVec

	addCount      metric.Counter
	addTime       metric.Counter
	addErrorCount metric.Counter

	evictionCount metric.Counter

	len           metric.Gauge
	portionFilled metric.Gauge
}

func newMetrics(namespace string, registry metric.Registry) (*cacheMetrics, error) {
	m := &cacheMetrics{
		getCount: metric.NewCounterVec(metric.CounterOpts{
			Namespace: namespace,
			Name:      "get_count",
			Help:      "number of get calls",
		}, resultLabels),
		getTime: metric.NewCounterVec(metric.CounterOpts{
			Namespace: namespace,
			Name:      "get_time",
			Help:      "time spent (ns) in get calls",
		}, resultLabels),
		addCount: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "add_count",
			Help:      "number of add calls",
		}),
		addTime: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "add_time",
			Help:      "time spent (ns) in add calls",
		}),
		addErrorCount: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "add_error_count",
			Help:      "number of rejected add calls",
		}),
		evictionCount: metric.NewCounter(metric.CounterOpts{
			Namespace: namespace,
			Name:      "eviction_count",
			Help:      "number of entries evicted to stay within capacity",
		}),
		len: metric.NewGauge(metric.GaugeOpts{
			Namespace: namespace,
			Name:      "len",
			Help:      "number of entries",
		}),
		portionFilled: metric.NewGauge(metric.GaugeOpts{
			Namespace: namespace,
			Name:      "portion_filled",
			Help:      "fraction of cache filled",
		}),
	}
	return m, errors.Join(
		registry.Register(metric.AsCollector(m.getCount)),
		registry.Register(metric.AsCollector(m.getTime)),
		registry.Register(metric.AsCollector(m.addCount)),
		registry.Register(metric.AsCollector(m.addTime)),
		registry.Register(metric.AsCollector(m.addErrorCount)),
		registry.Register(metric.AsCollector(m.evictionCount)),
		registry.Register(metric.AsCollector(m.len)),
		registry.Register(metric.AsCollector(m.portionFilled)),
	)
}
