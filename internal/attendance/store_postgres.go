package attendance

import (
	"context"
	"database/sql"
	"fmt"

	id "livegate/pkg/domain"
)

// PostgresStore persists attendance records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by migrations in deployment; tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS attendance_records (
    session_id UUID NOT NULL,
    user_id    UUID,
    role       TEXT NOT NULL,
    joined_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS attendance_records_session_idx ON attendance_records (session_id);
`

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	var userID any
	if record.UserID != nil {
		userID = record.UserID.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_records (session_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)`,
		record.SessionID.String(), userID, record.Role, record.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("append attendance record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySession(ctx context.Context, sessionID id.SessionID) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, user_id, role, joined_at
		FROM attendance_records
		WHERE session_id = $1
		ORDER BY joined_at`,
		sessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			record     Record
			rawSession string
			rawUser    sql.NullString
		)
		if err := rows.Scan(&rawSession, &rawUser, &record.Role, &record.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		if record.SessionID, err = id.ParseSessionID(rawSession); err != nil {
			return nil, fmt.Errorf("scan attendance session id: %w", err)
		}
		if rawUser.Valid {
			userID, err := id.ParseUserID(rawUser.String)
			if err != nil {
				return nil, fmt.Errorf("scan attendance user id: %w", err)
			}
			record.UserID = &userID
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
