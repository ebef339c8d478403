package db

import (
	"context"
	"fmt"
)

// DataVersion returns SQLite's data_version for the connection that runs
// the query. The value changes after another connection commits to the
// same database file; the connection's own commits leave it unchanged.
func DataVersion(ctx context.Context, q DBTX) (int64, error) {
	var v int64
	if err := q.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading data_version: %w", err)
	}
	return v, nil
}
