/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/internal/iocache"
	"github.com/gnames/gnverse/internal/iocatalog"
	"github.com/gnames/gnverse/internal/iodb"
	"github.com/gnames/gnverse/internal/iostore"
	"github.com/gnames/gnverse/pkg/bible"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/errcode"
)

// connect opens the configured verse store.
func connect(ctx context.Context, cfg *config.Config) (db.Operator, error) {
	op, err := iodb.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	if op.Dialect() == db.Postgres {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	} else {
		gn.Info("Opened verse store: <em>%s</em>", cfg.Database.Path)
	}
	return op, nil
}

// requireTables fails when the store has no schema yet.
func requireTables(ctx context.Context, op db.Operator) error {
	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}
	if !hasTables {
		return &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Verse store appears to be empty.</err>
   Run <em>'gnverse create'</em> first to initialize the schema.`,
			Err: errors.New("verse store has no tables"),
		}
	}
	return nil
}

// reader bundles everything reading commands need.
type reader struct {
	op    db.Operator
	reg   *catalog.Registry
	cache *iocache.Cache
	svc   *bible.Service
}

// openReader connects to the store, loads the catalog and, when a Redis
// address is configured, attaches the search page cache. An unreachable
// Redis only disables caching.
func openReader(ctx context.Context, cfg *config.Config) (*reader, error) {
	op, err := iodb.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		op.Close()
		name := cfg.Database.Path
		if op.Dialect() == db.Postgres {
			name = cfg.Database.Database
		}
		return nil, iodb.NewEmptyDatabaseError(name)
	}

	res := &reader{op: op, reg: catalog.NewRegistry(nil)}
	loader := iocatalog.New(op, cfg.Reader.DefaultVersion)
	if err = res.reg.Reload(ctx, loader); err != nil {
		op.Close()
		return nil, err
	}

	var bopts []bible.Option
	if cfg.Cache.RedisAddr != "" {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		res.cache, err = iocache.New(cctx, cfg.Cache)
		cancel()
		if err != nil {
			gn.Warn("Search cache is disabled: <em>%s</em> is not reachable",
				cfg.Cache.RedisAddr)
		} else {
			bopts = append(bopts, bible.OptCache(res.cache))
		}
	}

	res.svc = bible.New(res.reg, iostore.New(op), cfg.Reader, bopts...)
	return res, nil
}

func (r *reader) Close() {
	if r.cache != nil {
		_ = r.cache.Close()
	}
	_ = r.op.Close()
}
