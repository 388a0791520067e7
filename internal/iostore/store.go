// Package iostore implements page.Store over the SQL verse store. This
// is an impure I/O package, it runs range scans joining verse addresses
// with texts of one or two translations.
package iostore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/page"
)

type store struct {
	op db.Operator
}

// New creates a page.Store on top of a connected operator.
func New(op db.Operator) page.Store {
	return &store{op: op}
}

// Scan implements page.Store.
func (s *store) Scan(ctx context.Context, sc page.Scan) ([]page.Verse, error) {
	sdb := s.op.DB()
	if sdb == nil {
		return nil, NotConnectedError()
	}
	if len(sc.Versions) == 0 {
		return nil, nil
	}

	q, args := buildQuery(s.op.Dialect(), sc)
	rows, err := sdb.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ScanError(sc, err)
	}
	defer rows.Close()

	var res []page.Verse
	for rows.Next() {
		var v page.Verse
		err = rows.Scan(
			&v.Ordinal, &v.Book, &v.Chapter, &v.Verse, &v.Index,
			&v.Text, &v.Markup, &v.Text2, &v.Markup2,
		)
		if err != nil {
			return nil, ScanError(sc, err)
		}
		res = append(res, v)
	}
	if err = rows.Err(); err != nil {
		return nil, ScanError(sc, err)
	}
	return res, nil
}

// buildQuery renders a scan into SQL with placeholders of the dialect.
func buildQuery(d db.Dialect, sc page.Scan) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(`
SELECT v.ordinal, v.book, v.chapter, v.verse, v.idx,
  d.text, d.markup, `)
	if len(sc.Versions) > 1 {
		sb.WriteString("COALESCE(d2.text, ''), d2.markup")
	} else {
		sb.WriteString("'', NULL")
	}
	sb.WriteString(`
FROM verses v
  JOIN data d ON d.ordinal = v.ordinal AND d.version = ?`)
	args = append(args, sc.Versions[0])
	if len(sc.Versions) > 1 {
		sb.WriteString(`
  LEFT JOIN data d2 ON d2.ordinal = v.ordinal AND d2.version = ?`)
		args = append(args, sc.Versions[1])
	}

	sb.WriteString("\nWHERE v.ordinal >= ?")
	args = append(args, sc.Lo)
	if sc.Hi >= 0 {
		sb.WriteString(" AND v.ordinal <= ?")
		args = append(args, sc.Hi)
	}

	for _, kw := range sc.Keywords {
		sb.WriteString(" AND ")
		sb.WriteString(contains(d, sc.Fold))
		args = append(args, kw)
	}

	sb.WriteString("\nORDER BY v.ordinal")
	if sc.Desc {
		sb.WriteString(" DESC")
	}
	if sc.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, sc.Limit)
	}
	return d.Rebind(sb.String()), args
}

// contains is a substring test of the first translation text. LIKE is
// avoided because SQLite folds ASCII case in LIKE and keywords may hold
// wildcard characters.
func contains(d db.Dialect, fold bool) string {
	fn := "instr"
	if d == db.Postgres {
		fn = "strpos"
	}
	if fold {
		return fn + "(lower(d.text), lower(?)) > 0"
	}
	return fn + "(d.text, ?) > 0"
}

// Count returns the number of verses of a translation.
func Count(ctx context.Context, op db.Operator, version string) (int, error) {
	sdb := op.DB()
	if sdb == nil {
		return 0, NotConnectedError()
	}
	var res int
	q := op.Dialect().Rebind("SELECT count(*) FROM data WHERE version = ?")
	err := sdb.QueryRowContext(ctx, q, version).Scan(&res)
	if err != nil && err != sql.ErrNoRows {
		return 0, CountError(version, err)
	}
	return res, nil
}
