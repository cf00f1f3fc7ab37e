package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
	platformsqlite "github.com/devsuperior/dscommerce/internal/platform/sqlite"
)

var _ ports.SessionStore = (*SessionStore)(nil)

const defaultSessionTTL = 24 * time.Hour

// SessionStore records issued token ids in the user_sessions table.
type SessionStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, username, tokenID string, expiresAt time.Time) error {
	username = strings.TrimSpace(username)
	tokenID = strings.TrimSpace(tokenID)
	if username == "" || tokenID == "" {
		return errors.New("username and token are required")
	}
	now := s.now()
	if expiresAt.IsZero() {
		expiresAt = now.Add(defaultSessionTTL)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_sessions(token, username, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET username = excluded.username,
			expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		tokenID, username, platformsqlite.FormatTime(expiresAt), platformsqlite.FormatTime(now), platformsqlite.FormatTime(now))
	return err
}

// Exists reports whether the token id is recorded and not yet expired.
// Timestamps are stored as UTC RFC 3339 text, so string comparison orders them.
func (s *SessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM user_sessions WHERE token = ? AND (expires_at IS NULL OR expires_at > ?))`,
		tokenID, platformsqlite.FormatTime(s.now()))
	return exists, err
}

func (s *SessionStore) Delete(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE username = ?`, username)
	return err
}

// PurgeExpired removes expired sessions and reports how many were deleted.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`, platformsqlite.FormatTime(s.now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
