package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/alexanderramin/lockedin/internal/domain"
)

// SQLiteTokenRepo stores at most one registered token.
type SQLiteTokenRepo struct {
	db db.DBTX
}

// NewSQLiteTokenRepo creates a new SQLiteTokenRepo.
func NewSQLiteTokenRepo(conn db.DBTX) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{db: conn}
}

// Get returns ErrNotFound when no token is registered.
func (r *SQLiteTokenRepo) Get(ctx context.Context) (*domain.RegisteredToken, error) {
	var t domain.RegisteredToken
	var registeredAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT token_id, registered_at, nickname FROM registered_token WHERE id = 1`,
	).Scan(&t.TokenID, &registeredAt, &t.Nickname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("registered token: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning registered token: %w", err)
	}
	if t.RegisteredAt, err = parseTS(registeredAt); err != nil {
		return nil, fmt.Errorf("parsing token registered_at: %w", err)
	}
	return &t, nil
}

// Put replaces any previously registered token.
func (r *SQLiteTokenRepo) Put(ctx context.Context, t *domain.RegisteredToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO registered_token (id, token_id, registered_at, nickname) VALUES (1, ?, ?, ?)`,
		t.TokenID, formatTS(t.RegisteredAt), t.Nickname)
	if err != nil {
		return fmt.Errorf("saving registered token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepo) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM registered_token WHERE id = 1`); err != nil {
		return fmt.Errorf("deleting registered token: %w", err)
	}
	return nil
}
