package iocatalog

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/errcode"
)

func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Catalog cannot be loaded without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// EmptyCatalogError is returned when the store has no books.
func EmptyCatalogError() error {
	msg := `The verse store has no books

<em>How to fix:</em>
  1. Load a corpus: <em>gnverse populate --corpus-dir DIR</em>`
	return &gn.Error{
		Code: errcode.CatalogLoadError,
		Msg:  msg,
		Err:  fmt.Errorf("no books in the store: %w", errcode.ErrNotFound),
	}
}

func LoadError(table string, err error) error {
	return &gn.Error{
		Code: errcode.CatalogLoadError,
		Msg:  "Cannot read catalog table <em>%s</em>",
		Vars: []any{table},
		Err: fmt.Errorf("catalog table %s: %w: %w",
			table, errcode.ErrStoreUnavailable, err),
	}
}

// InvariantError wraps a failed consistency check of loaded tables.
func InvariantError(err error) error {
	return &gn.Error{
		Code: errcode.CatalogInvariantError,
		Msg:  "Catalog tables are inconsistent",
		Err:  fmt.Errorf("catalog check: %w", err),
	}
}
