// Package redis keeps token sessions in Redis with native expiry.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "user-sessions:"
	defaultTTL        = 24 * time.Hour
)

// SessionStore maps session:<token id> to the username and indexes the ids
// of each user under user-sessions:<username> so logout can revoke them all.
type SessionStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewSessionStore(client goredis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, username, tokenID string, expiresAt time.Time) error {
	username = strings.TrimSpace(username)
	tokenID = strings.TrimSpace(tokenID)
	if username == "" || tokenID == "" {
		return errors.New("username and token are required")
	}
	ttl := defaultTTL
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	index := userSessionPrefix + username
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionPrefix+tokenID, username, ttl)
		pipe.SAdd(ctx, index, tokenID)
		pipe.Expire(ctx, index, ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) Delete(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	index := userSessionPrefix + username
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionPrefix+id)
	}
	keys = append(keys, index)
	return s.client.Del(ctx, keys...).Err()
}
