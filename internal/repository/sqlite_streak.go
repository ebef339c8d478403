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

// SQLiteStreakRepo implements StreakRepo on the singleton streak_data row.
type SQLiteStreakRepo struct {
	db db.DBTX
}

// NewSQLiteStreakRepo creates a new SQLiteStreakRepo.
func NewSQLiteStreakRepo(conn db.DBTX) *SQLiteStreakRepo {
	return &SQLiteStreakRepo{db: conn}
}

func (r *SQLiteStreakRepo) Get(ctx context.Context) (*domain.StreakData, error) {
	query := `SELECT current_streak, longest_streak, last_completed_date, last_milestone_shown
		FROM streak_data WHERE id = 1`
	var s domain.StreakData
	var last sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(&s.CurrentStreak, &s.LongestStreak, &last, &s.LastMilestoneShown)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("streak data: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning streak data: %w", err)
	}
	// Dates are local midnights; comparisons use Equal so the parsed
	// offset zone is fine.
	s.LastCompletedDate = parseNullableTime(last, time.RFC3339)
	return &s, nil
}

func (r *SQLiteStreakRepo) Save(ctx context.Context, s *domain.StreakData) error {
	query := `INSERT OR REPLACE INTO streak_data (id, current_streak, longest_streak, last_completed_date, last_milestone_shown)
		VALUES (1, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.CurrentStreak,
		s.LongestStreak,
		nullableTimeToString(s.LastCompletedDate, time.RFC3339),
		s.LastMilestoneShown,
	)
	if err != nil {
		return fmt.Errorf("saving streak data: %w", err)
	}
	return nil
}

func (r *SQLiteStreakRepo) ResetCurrent(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE streak_data SET current_streak = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("resetting streak: %w", err)
	}
	return nil
}

func (r *SQLiteStreakRepo) SetLastMilestoneShown(ctx context.Context, milestone int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE streak_data SET last_milestone_shown = MAX(last_milestone_shown, ?) WHERE id = 1`, milestone)
	if err != nil {
		return fmt.Errorf("updating last milestone shown: %w", err)
	}
	return nil
}
