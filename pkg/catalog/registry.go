package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gnames/gnverse/pkg/errcode"
)

// Loader builds a complete catalog snapshot from persistent storage.
type Loader interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Registry holds the process-wide catalog snapshot. Readers get the
// current snapshot with Catalog and keep using it for the whole request.
type Registry struct {
	cur atomic.Pointer[Catalog]
}

// NewRegistry creates a registry with an initial snapshot, which may be
// nil.
func NewRegistry(c *Catalog) *Registry {
	res := &Registry{}
	if c != nil {
		res.cur.Store(c)
	}
	return res
}

// Catalog returns the current snapshot or nil when nothing was loaded.
func (r *Registry) Catalog() *Catalog {
	return r.cur.Load()
}

// Swap installs a snapshot and returns the previous one.
func (r *Registry) Swap(c *Catalog) *Catalog {
	return r.cur.Swap(c)
}

// Reload builds a new snapshot with the loader and installs it. On any
// failure the current snapshot stays in place.
func (r *Registry) Reload(ctx context.Context, l Loader) error {
	c, err := l.Load(ctx)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("loader returned no catalog: %w",
			errcode.ErrInvariantViolation)
	}
	r.cur.Store(c)
	return nil
}

// IsInvariantViolation tells if err came from a failed consistency
// check.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, errcode.ErrInvariantViolation)
}
