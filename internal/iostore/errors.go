package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/errcode"
	"github.com/gnames/gnverse/pkg/page"
)

func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Verse store is not connected",
		Err: fmt.Errorf("not connected to database: %w",
			errcode.ErrStoreUnavailable),
	}
}

// ScanError wraps a failed range scan. The error matches
// errcode.ErrStoreUnavailable.
func ScanError(sc page.Scan, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReaderStoreError,
		Msg:  "Cannot read verses of <em>%v</em>",
		Vars: []any{sc.Versions},
		Err: fmt.Errorf("from %s: scan %d..%d: %w: %w",
			fn.Name(), sc.Lo, sc.Hi, errcode.ErrStoreUnavailable, err),
	}
}

func CountError(version string, err error) error {
	return &gn.Error{
		Code: errcode.ReaderStoreError,
		Msg:  "Cannot count verses of <em>%s</em>",
		Vars: []any{version},
		Err: fmt.Errorf("count %s: %w: %w",
			version, errcode.ErrStoreUnavailable, err),
	}
}
