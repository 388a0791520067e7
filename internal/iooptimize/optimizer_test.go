package iooptimize_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/internal/iodb"
	"github.com/gnames/gnverse/internal/iooptimize"
	"github.com/gnames/gnverse/internal/iopopulate"
	"github.com/gnames/gnverse/internal/ioschema"
	"github.com/gnames/gnverse/internal/iotesting"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/errcode"
	"github.com/gnames/gnverse/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()
	ctx := context.Background()
	cfg.Update([]config.Option{
		config.OptPopulateCorpusDir(iotesting.WriteCorpus(t)),
	})
	op, err := iodb.New(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { op.Close() })
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))
	require.NoError(t, iopopulate.New(op).Populate(ctx, cfg))
	return op
}

func count(t *testing.T, op db.Operator, q string, args ...any) int {
	t.Helper()
	var res int
	err := op.DB().QueryRow(op.Dialect().Rebind(q), args...).Scan(&res)
	require.NoError(t, err, q)
	return res
}

func TestOptimize(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := populated(t, cfg)

	_, err := op.DB().Exec("UPDATE versions SET max_gap = 42")
	require.NoError(t, err)

	opt := iooptimize.New(op)
	require.NoError(t, opt.Optimize(ctx, cfg))

	gapQ := "SELECT max_gap FROM versions WHERE version = ?"
	tests := []struct {
		version string
		gap     int
	}{
		{"kjv", 1},
		{"niv", iotesting.CorpusNIVGap},
		{"kjav", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.gap, count(t, op, gapQ, tt.version), tt.version)
	}

	idxQ := `SELECT count(*) FROM sqlite_master
WHERE type = 'index' AND name LIKE 'idx_%'`
	assert.Equal(t, 7, count(t, op, idxQ))
	assert.Equal(t, 1, count(t, op,
		"SELECT count(*) FROM meta WHERE key = ?", schema.MetaOptimized))

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, opt.Optimize(ctx, cfg))
		assert.Equal(t, 7, count(t, op, idxQ))
		assert.Equal(t, 6, count(t, op, "SELECT count(*) FROM meta"))
	})
}

func TestOptimizeFile(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteFileConfig(t)
	op := populated(t, cfg)
	require.NoError(t, iooptimize.New(op).Optimize(ctx, cfg))
	assert.Equal(t, iotesting.CorpusTexts, count(t, op, "SELECT count(*) FROM data"))
}

func TestOptimizeNotConnected(t *testing.T) {
	cfg := iotesting.SQLiteConfig(t)
	err := iooptimize.New(iodb.NewSQLiteOperator()).
		Optimize(context.Background(), cfg)
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestOptimizeNoTables(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	err := iooptimize.New(op).Optimize(ctx, cfg)
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.OptimizerIndexError, gnErr.Code)
}

func TestOptimizePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()
	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))
	cfg.Update([]config.Option{
		config.OptPopulateCorpusDir(iotesting.WriteCorpus(t)),
	})
	require.NoError(t, iopopulate.New(op).Populate(ctx, cfg))

	require.NoError(t, iooptimize.New(op).Optimize(ctx, cfg))
	assert.Equal(t, iotesting.CorpusNIVGap, count(t, op,
		"SELECT max_gap FROM versions WHERE version = ?", "niv"))
}
