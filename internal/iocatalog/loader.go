// Package iocatalog builds catalog snapshots out of the verse store
// tables. This is an impure I/O package that implements
// lifecycle.CatalogLoader.
package iocatalog

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/lifecycle"
	"github.com/gnames/gnverse/pkg/reading"
	"github.com/gnames/gnverse/pkg/schema"
)

type loader struct {
	operator       db.Operator
	defaultVersion string
}

// New creates a catalog loader. The defaultVersion is used when it names
// a translation of the store, otherwise the default recorded by populate
// is used.
func New(op db.Operator, defaultVersion string) lifecycle.CatalogLoader {
	return &loader{operator: op, defaultVersion: defaultVersion}
}

// Load reads all catalog tables and validates them into a snapshot.
func (l *loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	if l.operator.DB() == nil {
		return nil, NotConnectedError()
	}

	books, err := l.books(ctx)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, EmptyCatalogError()
	}
	versions, err := l.versions(ctx)
	if err != nil {
		return nil, err
	}
	bounds, err := l.bounds(ctx, len(books))
	if err != nil {
		return nil, err
	}
	plan, err := l.plan(ctx)
	if err != nil {
		return nil, err
	}
	deflt, err := l.pickDefault(ctx, versions)
	if err != nil {
		return nil, err
	}

	res, err := catalog.New(catalog.Tables{
		Books:          books,
		Versions:       versions,
		Bounds:         bounds,
		Plan:           plan,
		DefaultVersion: deflt,
	})
	if err != nil {
		return nil, InvariantError(err)
	}
	slog.Debug("Catalog loaded",
		"books", len(books),
		"versions", len(versions),
		"verses", bounds.Total(),
		"readings", plan.Len(),
	)
	return res, nil
}

// query runs q and calls scan for every row. Rows are closed before it
// returns, so queries never overlap on a single-connection store.
func (l *loader) query(
	ctx context.Context,
	table, q string,
	scan func(*sql.Rows) error,
	args ...any,
) error {
	rows, err := l.operator.DB().QueryContext(
		ctx, l.operator.Dialect().Rebind(q), args...)
	if err != nil {
		return LoadError(table, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err = scan(rows); err != nil {
			return LoadError(table, err)
		}
	}
	if err = rows.Err(); err != nil {
		return LoadError(table, err)
	}
	return nil
}

func (l *loader) books(ctx context.Context) ([]catalog.BookEntry, error) {
	var res []catalog.BookEntry
	err := l.query(ctx, "books", "SELECT book, code FROM books ORDER BY book",
		func(rows *sql.Rows) error {
			var b catalog.BookEntry
			if err := rows.Scan(&b.Index, &b.Code); err != nil {
				return err
			}
			b.Names = make(map[string]catalog.Names)
			res = append(res, b)
			return nil
		})
	if err != nil {
		return nil, err
	}

	byIndex := func(i int) *catalog.BookEntry {
		if i < 0 || i >= len(res) {
			return nil
		}
		return &res[i]
	}

	err = l.query(ctx, "book_names",
		"SELECT book, lang, abbr, title FROM book_names ORDER BY book, lang",
		func(rows *sql.Rows) error {
			var book int
			var lang string
			var n catalog.Names
			if err := rows.Scan(&book, &lang, &n.Abbr, &n.Title); err != nil {
				return err
			}
			if b := byIndex(book); b != nil {
				b.Names[lang] = n
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = l.query(ctx, "book_aliases",
		"SELECT alias, book, lang FROM book_aliases ORDER BY book, alias",
		func(rows *sql.Rows) error {
			var alias string
			var book int
			var lang sql.NullString
			if err := rows.Scan(&alias, &book, &lang); err != nil {
				return err
			}
			if b := byIndex(book); b != nil {
				b.Others = append(b.Others,
					catalog.Alias{Text: alias, Lang: lang.String})
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *loader) versions(ctx context.Context) ([]catalog.VersionEntry, error) {
	var res []catalog.VersionEntry
	idx := make(map[string]int)
	err := l.query(ctx, "versions", `
SELECT version, abbr, lang, blessed, year, copyright, max_gap
FROM versions ORDER BY version`,
		func(rows *sql.Rows) error {
			var v catalog.VersionEntry
			var year sql.NullInt64
			var copyright sql.NullString
			err := rows.Scan(&v.Code, &v.Abbr, &v.Lang, &v.Blessed,
				&year, &copyright, &v.MaxGap)
			if err != nil {
				return err
			}
			v.Year = int(year.Int64)
			v.Copyright = copyright.String
			v.Titles = make(map[string]string)
			idx[v.Code] = len(res)
			res = append(res, v)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = l.query(ctx, "version_names",
		"SELECT version, lang, title FROM version_names",
		func(rows *sql.Rows) error {
			var code, lang, title string
			if err := rows.Scan(&code, &lang, &title); err != nil {
				return err
			}
			if i, ok := idx[code]; ok {
				res[i].Titles[lang] = title
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = l.query(ctx, "version_aliases",
		"SELECT alias, version FROM version_aliases ORDER BY alias",
		func(rows *sql.Rows) error {
			var alias, code string
			if err := rows.Scan(&alias, &code); err != nil {
				return err
			}
			if i, ok := idx[code]; ok {
				res[i].Aliases = append(res[i].Aliases, alias)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *loader) bounds(ctx context.Context, bookNum int) (*address.Bounds, error) {
	var addrs []address.VerseAddress
	err := l.query(ctx, "verses",
		"SELECT ordinal, book, chapter, verse, idx FROM verses ORDER BY ordinal",
		func(rows *sql.Rows) error {
			var a address.VerseAddress
			err := rows.Scan(&a.Ordinal, &a.Book, &a.Chapter, &a.Verse, &a.Index)
			if err != nil {
				return err
			}
			addrs = append(addrs, a)
			return nil
		})
	if err != nil {
		return nil, err
	}

	res, err := address.Build(bookNum, addrs)
	if err != nil {
		return nil, InvariantError(err)
	}
	return res, nil
}

func (l *loader) plan(ctx context.Context) (*reading.Plan, error) {
	var readings []reading.DailyReading
	err := l.query(ctx, "topics", `
SELECT code, ordinal1, ordinal2 FROM topics
WHERE kind = ? ORDER BY code, ordinal1`,
		func(rows *sql.Rows) error {
			var r reading.DailyReading
			var or reading.OrdinalRange
			if err := rows.Scan(&r.Code, &or.From, &or.To); err != nil {
				return err
			}
			r.Ranges = []reading.OrdinalRange{or}
			readings = append(readings, r)
			return nil
		}, schema.TopicDaily)
	if err != nil {
		return nil, err
	}
	return reading.NewPlan(readings), nil
}

// pickDefault returns the configured default version when the store has
// it, otherwise the default recorded in meta.
func (l *loader) pickDefault(
	ctx context.Context,
	versions []catalog.VersionEntry,
) (string, error) {
	has := func(code string) bool {
		for _, v := range versions {
			if v.Code == code {
				return true
			}
		}
		return false
	}
	if l.defaultVersion != "" && has(l.defaultVersion) {
		return l.defaultVersion, nil
	}
	if l.defaultVersion != "" {
		slog.Warn("Default version is not in the store",
			"version", l.defaultVersion)
	}

	var res string
	err := l.query(ctx, "meta", "SELECT value FROM meta WHERE key = ?",
		func(rows *sql.Rows) error {
			return rows.Scan(&res)
		}, schema.MetaDefault)
	if err != nil {
		return "", err
	}
	if !has(res) {
		return "", nil
	}
	return res, nil
}
