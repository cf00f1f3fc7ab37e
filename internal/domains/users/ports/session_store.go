package ports

import (
	"context"
	"time"
)

// SessionStore tracks issued tokens by id so they can be revoked before expiry.
type SessionStore interface {
	Save(ctx context.Context, username, tokenID string, expiresAt time.Time) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	// Delete revokes every session of username.
	Delete(ctx context.Context, username string) error
}

// NoopSessionStore accepts every token; revocation is a no-op.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(context.Context, string, string, time.Time) error { return nil }
func (noopSessionStore) Exists(context.Context, string) (bool, error)          { return true, nil }
func (noopSessionStore) Delete(context.Context, string) error                  { return nil }
