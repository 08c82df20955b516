// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// lrusim runs a concurrent insert/read workload against a metered LRU cache
// and fails if any eviction was lost or duplicated.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/luxfi/metric"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxfi/lrucache/internal/workload"
	"github.com/luxfi/lrucache/metercacher"
	"github.com/luxfi/lrucache/registry"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		cfg       workload.Config
		namespace string
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:          "lrusim",
		Short:        "Exercise an LRU cache with a concurrent workload",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return run(cmd.Context(), log, cfg, namespace)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Capacity, "capacity", 10, "maximum number of cached entries")
	flags.IntVar(&cfg.Workers, "workers", 8, "number of concurrent workers")
	flags.IntVar(&cfg.Keys, "keys", 100_000, "number of distinct keys to insert")
	flags.IntVar(&cfg.ReadKeySpace, "read-keyspace", 100, "reads pick keys uniformly from [0, read-keyspace)")
	flags.StringVar(&namespace, "namespace", "lrusim", "metrics namespace")
	flags.BoolVar(&verbose, "verbose", false, "enable debug logging")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return config.Build()
}

func run(ctx context.Context, log *zap.Logger, cfg workload.Config, namespace string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid workload: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	caches := registry.New(log)
	c, err := registry.Get[int, string](caches, cfg.Capacity)
	if err != nil {
		return err
	}

	metered, err := metercacher.New[int, string](namespace, metric.NewRegistry(), c)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	defer metered.Close()

	log.Info("starting workload",
		zap.Int("capacity", cfg.Capacity),
		zap.Int("workers", cfg.Workers),
		zap.Int("keys", cfg.Keys),
	)
	res, err := workload.Run(ctx, metered, cfg)
	if err != nil {
		return err
	}
	log.Info("workload finished",
		zap.Int("count", res.Count),
		zap.Int64("evictions", res.Evictions),
		zap.Float64("portionFilled", metered.PortionFilled()),
	)
	return workload.Verify(cfg, res)
}
