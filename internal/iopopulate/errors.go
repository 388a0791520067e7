package iopopulate

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/errcode"
)

// NotConnectedError creates an error for when populate
// operation is attempted without database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Populate operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// CorpusDirError creates an error for a missing or unreadable corpus
// directory.
func CorpusDirError(dir string, err error) error {
	msg := `Cannot use corpus directory <em>%s</em>

<em>How to fix:</em>
  1. Check that the directory exists
  2. Put verses_*.tsv or verses_*.tsv.xz files into it
  3. Pass it with <em>gnverse populate --corpus-dir DIR</em>`

	return &gn.Error{
		Code: errcode.PopulateCorpusDirError,
		Msg:  msg,
		Vars: []any{dir},
		Err:  fmt.Errorf("corpus directory %s: %w", dir, err),
	}
}

// DefinitionsError is returned when books.yaml or versions.yaml cannot be
// parsed or describe an inconsistent catalog.
func DefinitionsError(file string, err error) error {
	return &gn.Error{
		Code: errcode.PopulateDefinitionsError,
		Msg:  "Cannot use definitions from <em>%s</em>",
		Vars: []any{file},
		Err:  fmt.Errorf("definitions %s: %w", file, err),
	}
}

func VerseFileError(file string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PopulateVerseFileError,
		Msg:  "Cannot read verse file <em>%s</em>",
		Vars: []any{file},
		Err:  fmt.Errorf("from %s: verse file %s: %w", fn.Name(), file, err),
	}
}

// VerseLineError points to a malformed line of a verse file.
func VerseLineError(file string, line int, err error) error {
	return &gn.Error{
		Code: errcode.PopulateVerseLineError,
		Msg:  "Malformed line <em>%d</em> in <em>%s</em>",
		Vars: []any{line, file},
		Err:  fmt.Errorf("%s:%d: %w", file, line, err),
	}
}

// BoundsError is returned when verse addresses of the corpus do not form
// consistent bounds tables.
func BoundsError(err error) error {
	return &gn.Error{
		Code: errcode.PopulateBoundsError,
		Msg:  "Verse addresses of the corpus are inconsistent",
		Err:  fmt.Errorf("cannot build verse bounds: %w", err),
	}
}

func DailyError(code string, err error) error {
	return &gn.Error{
		Code: errcode.PopulateDailyError,
		Msg:  "Cannot resolve daily reading <em>%s</em>",
		Vars: []any{code},
		Err:  fmt.Errorf("daily reading %s: %w", code, err),
	}
}

func InsertError(table string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PopulateInsertError,
		Msg:  "Cannot write to table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("from %s: insert into %s: %w", fn.Name(), table, err),
	}
}

// CancelledError creates an error for when populate is cancelled.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  "Populate operation was cancelled",
		Err:  fmt.Errorf("populate cancelled: %w", err),
	}
}
