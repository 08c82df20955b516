// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package workload drives a cache with concurrent inserts of distinct keys
// mixed with random reads, and checks the resulting eviction accounting.
package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/lrucache"
)

var (
	errInvalidWorkers   = errors.New("workers must be positive")
	errInvalidKeys      = errors.New("keys must not be negative")
	errInvalidKeySpace  = errors.New("read key space must be positive")
	errCountMismatch    = errors.New("unexpected cache count")
	errEvictionMismatch = errors.New("unexpected eviction count")
)

// Config describes a workload.
type Config struct {
	// Capacity of the cache under test.
	Capacity int
	// Workers is the number of concurrent goroutines.
	Workers int
	// Keys is the number of distinct keys inserted in total.
	Keys int
	// ReadKeySpace bounds the keys read after every insert.
	ReadKeySpace int
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return cache.ErrInvalidCapacity
	case c.Workers <= 0:
		return errInvalidWorkers
	case c.Keys < 0:
		return errInvalidKeys
	case c.ReadKeySpace <= 0:
		return errInvalidKeySpace
	default:
		return nil
	}
}

// Result is the observed outcome of a run.
type Result struct {
	Count     int
	Evictions int64
}

// Run inserts cfg.Keys distinct keys into c from cfg.Workers goroutines,
// each insert followed by a Get of a random key. c is expected to start
// empty.
func Run(ctx context.Context, c cache.Cacher[int, string], cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	var evictions atomic.Int64
	id := c.Subscribe(func(int, string) {
		evictions.Add(1)
	})
	defer c.Unsubscribe(id)

	g, ctx := errgroup.WithContext(ctx)
	for w := range cfg.Workers {
		g.Go(func() error {
			for key := w; key < cfg.Keys; key += cfg.Workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := c.Add(key, strconv.Itoa(key)); err != nil {
					return fmt.Errorf("adding key %d: %w", key, err)
				}
				c.Get(rand.IntN(cfg.ReadKeySpace))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Count:     c.Count(),
		Evictions: evictions.Load(),
	}, nil
}

// Verify checks that no eviction was lost or duplicated.
func Verify(cfg Config, res Result) error {
	wantCount := min(cfg.Capacity, cfg.Keys)
	if res.Count != wantCount {
		return fmt.Errorf("%w: got %d, want %d", errCountMismatch, res.Count, wantCount)
	}
	wantEvictions := int64(max(0, cfg.Keys-cfg.Capacity))
	if res.Evictions != wantEvictions {
		return fmt.Errorf("%w: got %d, want %d", errEvictionMismatch, res.Evictions, wantEvictions)
	}
	return nil
}
