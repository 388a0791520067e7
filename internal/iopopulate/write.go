package iopopulate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/schema"
	"github.com/jackc/pgx/v5"
)

// table is a batch of rows for one store table.
type table struct {
	name    string
	columns []string
	rows    [][]any
}

func newTable(model schema.DDLGenerator) *table {
	return &table{
		name:    model.TableName(),
		columns: schema.Columns(model),
	}
}

func (t *table) add(row ...any) {
	t.rows = append(t.rows, row)
}

// clear removes rows of all corpus tables.
func (p *populator) clear(ctx context.Context) error {
	sdb := p.operator.DB()
	models := schema.AllModels()
	for i := len(models) - 1; i >= 0; i-- {
		name := models[i].TableName()
		q := "DELETE FROM " + name
		if p.operator.Dialect() == db.Postgres {
			q = "TRUNCATE TABLE " + name
		}
		if _, err := sdb.ExecContext(ctx, q); err != nil {
			return InsertError(name, err)
		}
	}
	return nil
}

// insert writes rows in batches of batchSize. PostgreSQL gets them with
// CopyFrom, SQLite with a prepared statement in one transaction per
// batch.
func (p *populator) insert(ctx context.Context, t *table, batchSize int) error {
	if len(t.rows) == 0 {
		return nil
	}
	batchSize = max(batchSize, 1)

	var bar *pb.ProgressBar
	if len(t.rows) > batchSize {
		bar = pb.Full.Start(len(t.rows))
		bar.Set("prefix", fmt.Sprintf("Writing %s: ", t.name))
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	for start := 0; start < len(t.rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			return CancelledError(err)
		}
		end := min(start+batchSize, len(t.rows))
		var err error
		if p.operator.Pool() != nil {
			err = p.copyRows(ctx, t, t.rows[start:end])
		} else {
			err = p.execRows(ctx, t, t.rows[start:end])
		}
		if err != nil {
			return InsertError(t.name, err)
		}
		if bar != nil {
			bar.Add(end - start)
		}
	}

	slog.Info("Rows written", "table", t.name,
		"count", humanize.Comma(int64(len(t.rows))))
	return nil
}

func (p *populator) copyRows(ctx context.Context, t *table, rows [][]any) error {
	_, err := p.operator.Pool().CopyFrom(
		ctx,
		pgx.Identifier{t.name},
		t.columns,
		pgx.CopyFromRows(rows),
	)
	return err
}

func (p *populator) execRows(ctx context.Context, t *table, rows [][]any) error {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(t.columns, ", "), marks)

	tx, err := p.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, p.operator.Dialect().Rebind(q))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
