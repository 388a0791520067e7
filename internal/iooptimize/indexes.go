package iooptimize

import (
	"context"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnverse/pkg/schema"
)

// createIndexes runs IndexDDL of all models. Statements use IF NOT
// EXISTS, so existing indexes are kept.
func (o *optimizer) createIndexes(ctx context.Context) (int, error) {
	var stmts []string
	for _, m := range schema.AllModels() {
		stmts = append(stmts, m.IndexDDL()...)
	}

	bar := newProgressBar(len(stmts), "indexes: ")
	defer bar.Finish()

	sdb := o.operator.DB()
	for _, stmt := range stmts {
		slog.Debug("Creating index", "ddl", stmt)
		if _, err := sdb.ExecContext(ctx, stmt); err != nil {
			return 0, IndexError(stmt, err)
		}
		bar.Increment()
	}
	return len(stmts), nil
}

// newProgressBar creates a progress bar that disappears when done.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
