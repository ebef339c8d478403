package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

const scheduleColumns = `id, name, start_minute, end_minute, days_of_week, enabled, created_at`

func (r *SQLiteScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	query := `INSERT INTO schedules (` + scheduleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.StartMinute,
		s.EndMinute,
		s.DaysOfWeek,
		boolToInt(s.Enabled),
		formatTS(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteScheduleRepo) List(ctx context.Context) ([]*domain.Schedule, error) {
	return r.query(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY start_minute, created_at`)
}

func (r *SQLiteScheduleRepo) ListEnabled(ctx context.Context) ([]*domain.Schedule, error) {
	return r.query(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE enabled = 1 ORDER BY created_at, id`)
}

func (r *SQLiteScheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	query := `UPDATE schedules SET name = ?, start_minute = ?, end_minute = ?, days_of_week = ?, enabled = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name, s.StartMinute, s.EndMinute, s.DaysOfWeek, boolToInt(s.Enabled), s.ID)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	if !ok {
		return fmt.Errorf("schedule %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	if !ok {
		return fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteScheduleRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var out []*domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var s domain.Schedule
	var enabled int
	var createdAt string
	if err := row.Scan(&s.ID, &s.Name, &s.StartMinute, &s.EndMinute, &s.DaysOfWeek, &enabled, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	s.Enabled = intToBool(enabled)
	var err error
	if s.CreatedAt, err = parseTS(createdAt); err != nil {
		return nil, fmt.Errorf("parsing schedule created_at: %w", err)
	}
	return &s, nil
}

