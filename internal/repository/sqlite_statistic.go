package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
)

// SQLiteStatisticRepo implements StatisticRepo using a SQLite database.
type SQLiteStatisticRepo struct {
	db db.DBTX
}

// NewSQLiteStatisticRepo creates a new SQLiteStatisticRepo.
func NewSQLiteStatisticRepo(conn db.DBTX) *SQLiteStatisticRepo {
	return &SQLiteStatisticRepo{db: conn}
}

const statisticColumns = `id, start_time, end_time, blocked_attempts, time_saved_seconds, completed_successfully`

func (r *SQLiteStatisticRepo) Create(ctx context.Context, s *domain.SessionStatistic) error {
	query := `INSERT INTO session_statistics (` + statisticColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		formatTS(s.StartTime),
		nullableTS(s.EndTime),
		s.BlockedAttempts,
		s.TimeSavedSeconds,
		boolToInt(s.CompletedSuccessfully),
	)
	if err != nil {
		return fmt.Errorf("inserting session statistic: %w", err)
	}
	return nil
}

func (r *SQLiteStatisticRepo) GetByID(ctx context.Context, id string) (*domain.SessionStatistic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+statisticColumns+` FROM session_statistics WHERE id = ?`, id)
	s, err := scanStatistic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session statistic %s: %w", id, ErrNotFound)
	}
	return s, err
}

// GetOpen returns the most recent open row.
func (r *SQLiteStatisticRepo) GetOpen(ctx context.Context) (*domain.SessionStatistic, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+statisticColumns+` FROM session_statistics
		WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1`)
	s, err := scanStatistic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("open session statistic: %w", ErrNotFound)
	}
	return s, err
}

func (r *SQLiteStatisticRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_statistics WHERE end_time IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting open session statistics: %w", err)
	}
	return n, nil
}

// List returns rows newest first. A limit <= 0 returns every row.
func (r *SQLiteStatisticRepo) List(ctx context.Context, limit int) ([]*domain.SessionStatistic, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(ctx, `SELECT `+statisticColumns+` FROM session_statistics
		ORDER BY start_time DESC LIMIT ?`, limit)
}

// ListSince returns rows that started at or after since, oldest first.
func (r *SQLiteStatisticRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.SessionStatistic, error) {
	return r.query(ctx, `SELECT `+statisticColumns+` FROM session_statistics
		WHERE start_time >= ? ORDER BY start_time`, formatTS(since))
}

func (r *SQLiteStatisticRepo) Close(ctx context.Context, id string, end time.Time, completed bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE session_statistics SET end_time = ?, completed_successfully = ?
		WHERE id = ? AND end_time IS NULL`, formatTS(end), boolToInt(completed), id)
	if err != nil {
		return false, fmt.Errorf("closing session statistic: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("closing session statistic: %w", err)
	}
	return ok, nil
}

// CloseAllOpen closes every open row as not completed and returns how many
// rows it touched.
func (r *SQLiteStatisticRepo) CloseAllOpen(ctx context.Context, end time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE session_statistics SET end_time = ?, completed_successfully = 0
		WHERE end_time IS NULL`, formatTS(end))
	if err != nil {
		return 0, fmt.Errorf("closing open session statistics: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("closing open session statistics: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteStatisticRepo) IncrementBlocked(ctx context.Context, id string, timeSavedSeconds int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE session_statistics
		SET blocked_attempts = blocked_attempts + 1, time_saved_seconds = time_saved_seconds + ?
		WHERE id = ? AND end_time IS NULL`, timeSavedSeconds, id)
	if err != nil {
		return false, fmt.Errorf("incrementing blocked attempts: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("incrementing blocked attempts: %w", err)
	}
	return ok, nil
}

func (r *SQLiteStatisticRepo) query(ctx context.Context, query string, args ...any) ([]*domain.SessionStatistic, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing session statistics: %w", err)
	}
	defer rows.Close()

	var out []*domain.SessionStatistic
	for rows.Next() {
		s, err := scanStatistic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session statistics: %w", err)
	}
	return out, nil
}

func scanStatistic(row rowScanner) (*domain.SessionStatistic, error) {
	var s domain.SessionStatistic
	var start string
	var end sql.NullString
	var completed int
	if err := row.Scan(&s.ID, &start, &end, &s.BlockedAttempts, &s.TimeSavedSeconds, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session statistic: %w", err)
	}
	var err error
	if s.StartTime, err = parseTS(start); err != nil {
		return nil, fmt.Errorf("parsing session start_time: %w", err)
	}
	s.EndTime = parseNullableTime(end, tsLayout)
	s.CompletedSuccessfully = intToBool(completed)
	return &s, nil
}

func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTS(*t)
}
