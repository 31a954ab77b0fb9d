package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

// PostgresStore persists subscriptions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by migrations in deployment; tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
    user_id    UUID PRIMARY KEY,
    plan       TEXT NOT NULL,
    starts_at  TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
`

func (s *PostgresStore) Upsert(ctx context.Context, sub Subscription) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, plan, starts_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET plan = EXCLUDED.plan, starts_at = EXCLUDED.starts_at, expires_at = EXCLUDED.expires_at`,
		sub.UserID.String(), sub.Plan, sub.StartsAt, sub.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID id.UserID) (Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, plan, starts_at, expires_at
		FROM subscriptions WHERE user_id = $1`,
		userID.String(),
	)
	var (
		sub   Subscription
		rawID string
	)
	err := row.Scan(&rawID, &sub.Plan, &sub.StartsAt, &sub.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Subscription{}, sentinel.ErrNotFound
		}
		return Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}
	if sub.UserID, err = id.ParseUserID(rawID); err != nil {
		return Subscription{}, fmt.Errorf("scan subscription user id: %w", err)
	}
	return sub, nil
}

var _ Store = (*PostgresStore)(nil)
