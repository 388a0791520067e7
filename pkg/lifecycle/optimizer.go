package lifecycle

import (
	"context"

	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/config"
)

// Optimizer defines the interface for preparing a populated store for
// reading.
//
// Optimization always rebuilds from scratch:
// - creates missing indexes
// - recomputes the max gap of every version
// - refreshes planner statistics and compacts the store
type Optimizer interface {
	// Optimize applies all steps in order.
	Optimize(ctx context.Context, cfg *config.Config) error
}

// CatalogLoader builds a catalog snapshot out of store tables.
type CatalogLoader interface {
	catalog.Loader
}
