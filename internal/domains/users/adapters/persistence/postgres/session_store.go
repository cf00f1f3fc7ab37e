package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

// SessionStore persists issued token ids in the relational store.
type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// NewSessionStore wires a SQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save upserts a session keyed by token id. A zero expiry falls back to DefaultSessionTTL.
func (s *SessionStore) Save(ctx context.Context, username, tokenID string, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	tokenID = strings.TrimSpace(tokenID)
	if username == "" || tokenID == "" {
		return errors.New("username and token are required")
	}
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(DefaultSessionTTL)
	}
	rec := sessionRecord{Username: username, Token: tokenID, ExpiresAt: &expiresAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Exists reports whether the token id is recorded and not yet expired.
func (s *SessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&sessionRecord{}).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", tokenID, s.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes every session of username.
func (s *SessionStore) Delete(ctx context.Context, username string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "username = ?", username).Error
}

// PurgeExpired removes all expired sessions and reports how many were deleted.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).Delete(&sessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("session store not configured")
	}
	return nil
}

var _ userports.SessionStore = (*SessionStore)(nil)
