// Package iooptimize implements Optimizer interface for verse store
// performance optimization. This is an impure I/O package that
// creates indexes, refreshes per-translation scan gaps and statistics.
package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/lifecycle"
	"github.com/gnames/gnverse/pkg/schema"
)

// optimizer implements the Optimizer interface.
type optimizer struct {
	operator db.Operator
}

// New creates a new Optimizer.
func New(op db.Operator) lifecycle.Optimizer {
	return &optimizer{operator: op}
}

// Optimize prepares a populated store for reading in 4 sequential
// steps:
//  1. Create indexes of every table
//  2. Recompute max_gap of every translation
//  3. Reclaim space and refresh planner statistics
//  4. Record the optimization time in meta
//
// Every step is idempotent, running Optimize twice is harmless.
func (o *optimizer) Optimize(
	ctx context.Context,
	cfg *config.Config,
) error {
	if o.operator.DB() == nil {
		return NotConnectedError()
	}

	startTime := time.Now()
	slog.Info("Starting verse store optimization",
		"driver", o.operator.Dialect().String())
	gn.Info("Optimization in progress, <em>it might take a while</em>...")

	slog.Info("Step 1/4: Creating indexes")
	n, err := o.createIndexes(ctx)
	if err != nil {
		return err
	}
	slog.Info("Step 1/4: Complete", "indexes", n)

	slog.Info("Step 2/4: Computing verse gaps of translations")
	gaps, err := o.updateMaxGaps(ctx)
	if err != nil {
		return err
	}
	slog.Info("Step 2/4: Complete", "versions", len(gaps))

	slog.Info("Step 3/4: Updating statistics")
	if err = o.vacuumAnalyze(ctx); err != nil {
		return err
	}

	slog.Info("Step 4/4: Updating metadata")
	now := time.Now().UTC().Format(time.RFC3339)
	if err = o.setMeta(ctx, schema.MetaOptimized, now); err != nil {
		return err
	}

	dur := gnfmt.TimeString(time.Since(startTime).Seconds())
	slog.Info("Verse store optimization completed", "duration", dur)
	gn.Info("Optimization complete. Elapsed time: <em>%s</em>", dur)
	return nil
}

func (o *optimizer) setMeta(ctx context.Context, key, value string) error {
	q := o.operator.Dialect().Rebind(`
INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`)
	if _, err := o.operator.DB().ExecContext(ctx, q, key, value); err != nil {
		return MetaError(key, err)
	}
	return nil
}
