package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
)

type SQLiteSetupRepo struct {
	db db.DBTX
}

func NewSQLiteSetupRepo(conn db.DBTX) *SQLiteSetupRepo {
	return &SQLiteSetupRepo{db: conn}
}

func (r *SQLiteSetupRepo) Get(ctx context.Context) (*domain.SetupState, error) {
	var s domain.SetupState
	var completed int
	var completedAt sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT completed, completed_at FROM setup_state WHERE id = 1`).
		Scan(&completed, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("setup state: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning setup state: %w", err)
	}
	s.Completed = intToBool(completed)
	s.CompletedAt = parseNullableTime(completedAt, tsLayout)
	return &s, nil
}

func (r *SQLiteSetupRepo) Save(ctx context.Context, s *domain.SetupState) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO setup_state (id, completed, completed_at) VALUES (1, ?, ?)`,
		boolToInt(s.Completed), nullableTS(s.CompletedAt))
	if err != nil {
		return fmt.Errorf("saving setup state: %w", err)
	}
	return nil
}
