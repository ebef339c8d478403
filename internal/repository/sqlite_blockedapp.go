package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
)

// SQLiteBlockedAppRepo implements BlockedAppRepo using a SQLite database.
type SQLiteBlockedAppRepo struct {
	db db.DBTX
}

// NewSQLiteBlockedAppRepo creates a new SQLiteBlockedAppRepo.
func NewSQLiteBlockedAppRepo(conn db.DBTX) *SQLiteBlockedAppRepo {
	return &SQLiteBlockedAppRepo{db: conn}
}

func (r *SQLiteBlockedAppRepo) Upsert(ctx context.Context, a *domain.BlockedApp) error {
	query := `INSERT INTO blocked_apps (package_name, display_name, enabled) VALUES (?, ?, ?)
		ON CONFLICT(package_name) DO UPDATE SET display_name = excluded.display_name, enabled = excluded.enabled`
	if _, err := r.db.ExecContext(ctx, query, a.PackageName, a.DisplayName, boolToInt(a.Enabled)); err != nil {
		return fmt.Errorf("upserting blocked app: %w", err)
	}
	return nil
}

func (r *SQLiteBlockedAppRepo) Get(ctx context.Context, packageName string) (*domain.BlockedApp, error) {
	var a domain.BlockedApp
	var enabled int
	err := r.db.QueryRowContext(ctx,
		`SELECT package_name, display_name, enabled FROM blocked_apps WHERE package_name = ?`, packageName,
	).Scan(&a.PackageName, &a.DisplayName, &enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blocked app %s: %w", packageName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning blocked app: %w", err)
	}
	a.Enabled = intToBool(enabled)
	return &a, nil
}

func (r *SQLiteBlockedAppRepo) List(ctx context.Context) ([]domain.BlockedApp, error) {
	return r.query(ctx, `SELECT package_name, display_name, enabled FROM blocked_apps
		ORDER BY display_name COLLATE NOCASE, package_name`)
}

func (r *SQLiteBlockedAppRepo) ListEnabled(ctx context.Context) ([]domain.BlockedApp, error) {
	return r.query(ctx, `SELECT package_name, display_name, enabled FROM blocked_apps
		WHERE enabled = 1 ORDER BY package_name`)
}

func (r *SQLiteBlockedAppRepo) CountEnabled(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocked_apps WHERE enabled = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting blocked apps: %w", err)
	}
	return n, nil
}

func (r *SQLiteBlockedAppRepo) SetEnabled(ctx context.Context, packageName string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE blocked_apps SET enabled = ? WHERE package_name = ?`,
		boolToInt(enabled), packageName)
	if err != nil {
		return fmt.Errorf("updating blocked app: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("updating blocked app: %w", err)
	}
	if !ok {
		return fmt.Errorf("blocked app %s: %w", packageName, ErrNotFound)
	}
	return nil
}

func (r *SQLiteBlockedAppRepo) Delete(ctx context.Context, packageName string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocked_apps WHERE package_name = ?`, packageName)
	if err != nil {
		return fmt.Errorf("deleting blocked app: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("deleting blocked app: %w", err)
	}
	if !ok {
		return fmt.Errorf("blocked app %s: %w", packageName, ErrNotFound)
	}
	return nil
}

func (r *SQLiteBlockedAppRepo) query(ctx context.Context, query string) ([]domain.BlockedApp, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing blocked apps: %w", err)
	}
	defer rows.Close()

	var apps []domain.BlockedApp
	for rows.Next() {
		var a domain.BlockedApp
		var enabled int
		if err := rows.Scan(&a.PackageName, &a.DisplayName, &enabled); err != nil {
			return nil, fmt.Errorf("scanning blocked app row: %w", err)
		}
		a.Enabled = intToBool(enabled)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocked apps: %w", err)
	}
	return apps, nil
}
