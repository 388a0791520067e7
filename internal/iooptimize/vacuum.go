package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gnverse/pkg/db"
)

// vacuumAnalyze reclaims storage and updates statistics used by the
// query planner. VACUUM cannot run inside a transaction block.
func (o *optimizer) vacuumAnalyze(ctx context.Context) error {
	timeStart := time.Now()

	if o.operator.Dialect() == db.Postgres {
		slog.Info("Running VACUUM ANALYZE on database...")
		if _, err := o.operator.Pool().Exec(ctx, "VACUUM ANALYZE"); err != nil {
			slog.Error("Failed to run VACUUM ANALYZE", "error", err)
			return VacuumError(err)
		}
	} else {
		slog.Info("Running VACUUM and ANALYZE on database...")
		sdb := o.operator.DB()
		for _, stmt := range []string{"VACUUM", "ANALYZE"} {
			if _, err := sdb.ExecContext(ctx, stmt); err != nil {
				slog.Error("Failed to run "+stmt, "error", err)
				return VacuumError(err)
			}
		}
	}

	slog.Info("Statistics updated", "duration", time.Since(timeStart).String())
	return nil
}
