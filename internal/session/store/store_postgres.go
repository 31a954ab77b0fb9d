package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

// PostgresStore persists sessions in PostgreSQL. Status transitions use a
// conditional UPDATE so the database arbitrates concurrent state changes; no
// application-level locking is needed.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by migrations in deployment; tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS live_sessions (
    id                  UUID PRIMARY KEY,
    title               TEXT NOT NULL,
    host_id             UUID NOT NULL,
    status              TEXT NOT NULL,
    access_level        TEXT NOT NULL,
    room_ref            TEXT NOT NULL DEFAULT '',
    guest_secret_hash   BYTEA,
    guest_secret_expiry TIMESTAMPTZ,
    scheduled_start     TIMESTAMPTZ NOT NULL,
    scheduled_end       TIMESTAMPTZ,
    started_at          TIMESTAMPTZ,
    ended_at            TIMESTAMPTZ,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Create(ctx context.Context, session models.LiveSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO live_sessions
			(id, title, host_id, status, access_level, room_ref,
			 guest_secret_hash, guest_secret_expiry,
			 scheduled_start, scheduled_end, started_at, ended_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		session.ID.String(), session.Title, session.HostID.String(),
		string(session.Status), string(session.Access), session.RoomRef,
		nullBytes(session.GuestSecretHash), nullTime(session.GuestSecretExpiry),
		session.ScheduledStart, session.ScheduledEnd,
		session.StartedAt, session.EndedAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, sessionID id.SessionID) (models.LiveSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, host_id, status, access_level, room_ref,
		       guest_secret_hash, guest_secret_expiry,
		       scheduled_start, scheduled_end, started_at, ended_at, created_at
		FROM live_sessions WHERE id = $1`,
		sessionID.String(),
	)
	return scanSession(row)
}

// TransitionStatus relies on the WHERE status guard: of N concurrent calls
// with the same expected prior state, the database lets exactly one through.
func (s *PostgresStore) TransitionStatus(ctx context.Context, sessionID id.SessionID, from, to models.Status, at time.Time) error {
	var column string
	switch to {
	case models.StatusLive:
		column = "started_at"
	case models.StatusEnded:
		column = "ended_at"
	default:
		return sentinel.ErrInvalidState
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE live_sessions SET status = $1, `+column+` = $2 WHERE id = $3 AND status = $4`,
		string(to), at, sessionID.String(), string(from),
	)
	if err != nil {
		return fmt.Errorf("transition session status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition session status: %w", err)
	}
	if affected == 0 {
		// Distinguish a lost race from an unknown session.
		if _, findErr := s.FindByID(ctx, sessionID); findErr != nil {
			return findErr
		}
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) SetGuestLink(ctx context.Context, sessionID id.SessionID, secretHash []byte, expiry time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE live_sessions SET guest_secret_hash = $1, guest_secret_expiry = $2 WHERE id = $3`,
		secretHash, expiry, sessionID.String(),
	)
	if err != nil {
		return fmt.Errorf("set guest link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set guest link: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.LiveSession, error) {
	var (
		session          models.LiveSession
		rawID, rawHostID string
		status, access   string
		guestExpiry      sql.NullTime
	)
	err := row.Scan(
		&rawID, &session.Title, &rawHostID, &status, &access, &session.RoomRef,
		&session.GuestSecretHash, &guestExpiry,
		&session.ScheduledStart, &session.ScheduledEnd,
		&session.StartedAt, &session.EndedAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LiveSession{}, sentinel.ErrNotFound
		}
		return models.LiveSession{}, fmt.Errorf("scan session: %w", err)
	}
	if session.ID, err = id.ParseSessionID(rawID); err != nil {
		return models.LiveSession{}, fmt.Errorf("scan session id: %w", err)
	}
	if session.HostID, err = id.ParseUserID(rawHostID); err != nil {
		return models.LiveSession{}, fmt.Errorf("scan session host id: %w", err)
	}
	session.Status = models.Status(status)
	session.Access = models.AccessLevel(access)
	if guestExpiry.Valid {
		session.GuestSecretExpiry = guestExpiry.Time
	}
	return session, nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
