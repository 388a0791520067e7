package iooptimize

import (
	"context"
	"log/slog"
)

// maxGapQuery finds the largest ordinal step between consecutive texts
// of each translation. A translation with one text gets 1.
const maxGapQuery = `
SELECT version, COALESCE(MAX(ordinal - prev), 1)
FROM (
  SELECT version, ordinal,
    LAG(ordinal) OVER (PARTITION BY version ORDER BY ordinal) AS prev
  FROM data
) gaps
GROUP BY version
ORDER BY version`

// updateMaxGaps stores max_gap of every translation that has texts.
// Bounded page scans rely on it to size their window.
func (o *optimizer) updateMaxGaps(ctx context.Context) (map[string]int, error) {
	gaps, err := o.maxGaps(ctx)
	if err != nil {
		return nil, err
	}

	sdb := o.operator.DB()
	q := o.operator.Dialect().Rebind(
		"UPDATE versions SET max_gap = ? WHERE version = ?")
	for v, gap := range gaps {
		if _, err = sdb.ExecContext(ctx, q, gap, v); err != nil {
			return nil, MaxGapError(err)
		}
		slog.Debug("Max gap", "version", v, "gap", gap)
	}
	return gaps, nil
}

func (o *optimizer) maxGaps(ctx context.Context) (map[string]int, error) {
	rows, err := o.operator.DB().QueryContext(ctx, maxGapQuery)
	if err != nil {
		return nil, MaxGapError(err)
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var v string
		var gap int
		if err = rows.Scan(&v, &gap); err != nil {
			return nil, MaxGapError(err)
		}
		res[v] = max(gap, 1)
	}
	if err = rows.Err(); err != nil {
		return nil, MaxGapError(err)
	}
	return res, nil
}
