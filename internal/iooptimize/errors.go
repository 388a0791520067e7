package iooptimize

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/errcode"
)

// NotConnectedError is returned when optimization runs without an open
// store.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Optimize operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// IndexError is returned when an index cannot be created.
func IndexError(stmt string, err error) error {
	msg := `Cannot create index

<em>Statement:</em> %s

<em>How to fix:</em>
  1. Make sure the store was populated: <em>gnverse populate</em>
  2. Duplicate verse addresses break unique indexes, check the corpus`

	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.OptimizerIndexError,
		Msg:  msg,
		Vars: []any{stmt},
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), stmt, err),
	}
}

// MaxGapError is returned when verse gaps of translations cannot be
// computed or saved.
func MaxGapError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.OptimizerMaxGapError,
		Msg:  "Cannot compute verse gaps of translations",
		Err:  fmt.Errorf("from %s: max gap: %w", fn.Name(), err),
	}
}

// VacuumError is returned when VACUUM or ANALYZE fail.
func VacuumError(err error) error {
	return &gn.Error{
		Code: errcode.OptimizerVacuumError,
		Msg:  "Cannot update store statistics",
		Err:  fmt.Errorf("vacuum: %w", err),
	}
}

// MetaError is returned when a meta row cannot be written.
func MetaError(key string, err error) error {
	return &gn.Error{
		Code: errcode.OptimizerMetaError,
		Msg:  "Cannot update metadata <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("meta %s: %w", key, err),
	}
}
