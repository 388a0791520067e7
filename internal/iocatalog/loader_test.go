package iocatalog_test

import (
	"context"
	"testing"

	"github.com/gnames/gnverse/internal/iocatalog"
	"github.com/gnames/gnverse/internal/iodb"
	"github.com/gnames/gnverse/internal/iopopulate"
	"github.com/gnames/gnverse/internal/ioschema"
	"github.com/gnames/gnverse/internal/iotesting"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T) db.Operator {
	t.Helper()
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	cfg.Update([]config.Option{
		config.OptPopulateCorpusDir(iotesting.WriteCorpus(t)),
	})
	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { op.Close() })
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))
	require.NoError(t, iopopulate.New(op).Populate(ctx, cfg))
	return op
}

func TestLoad(t *testing.T) {
	op := populated(t)
	cat, err := iocatalog.New(op, "").Load(context.Background())
	require.NoError(t, err)

	books := cat.Books()
	require.Len(t, books, 3)
	assert.Equal(t, "1John", books[2].Code)
	assert.Equal(t, "요한일서", books[2].Name("ko").Title)

	b, lang, err := cat.ResolveBookAlias("first john")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Index)
	assert.Equal(t, "en", lang)

	v, err := cat.ResolveVersion("흠정")
	require.NoError(t, err)
	assert.Equal(t, "kjav", v.Code)
	assert.Equal(t, "ko", v.Lang)
	assert.True(t, v.Blessed)
	assert.Equal(t, "Korean Authorized King James Version", v.Titles["en"])

	niv, err := cat.ResolveVersion("New International Version")
	require.NoError(t, err)
	assert.Equal(t, iotesting.CorpusNIVGap, niv.MaxGap)
	assert.Equal(t, 1978, niv.Year)

	assert.Equal(t, "kjav", cat.DefaultVersion("").Code)
	assert.Equal(t, "kjv", cat.DefaultVersion("en").Code)

	assert.Equal(t, iotesting.CorpusVerses, cat.Bounds().Total())
	a, err := cat.Bounds().Resolve(1, 3, 17)
	require.NoError(t, err)
	assert.Equal(t, 9, a.Ordinal)

	plan := cat.Plan()
	require.Equal(t, 3, plan.Len())
	r, _ := plan.Lookup("0102")
	assert.Equal(t, "0102", r.Code)
	require.Len(t, r.Ranges, 1)
	assert.Equal(t, 4, r.Ranges[0].To)
}

func TestLoadDefaultVersion(t *testing.T) {
	op := populated(t)
	ctx := context.Background()

	cat, err := iocatalog.New(op, "niv").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "niv", cat.DefaultVersion("").Code)

	cat, err = iocatalog.New(op, "nasv").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kjav", cat.DefaultVersion("").Code)
}

func TestLoadRegistry(t *testing.T) {
	op := populated(t)
	reg := catalog.NewRegistry(nil)
	require.NoError(t, reg.Reload(context.Background(), iocatalog.New(op, "")))
	require.NotNil(t, reg.Catalog())
	assert.Len(t, reg.Catalog().Versions(), 3)
}

func TestLoadEmpty(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := iodb.NewSQLiteOperator()

	_, err := iocatalog.New(op, "").Load(ctx)
	assert.Error(t, err, "not connected")

	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))

	reg := catalog.NewRegistry(nil)
	err = reg.Reload(ctx, iocatalog.New(op, ""))
	assert.Error(t, err)
	assert.Nil(t, reg.Catalog())
}
