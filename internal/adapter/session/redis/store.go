// Package redis implements the session store backed by Redis.
//
// Sessions are written by the identity service; this adapter only resolves
// bearer tokens to verified identities. A missing or malformed session is an
// authentication failure, not an infrastructure error.
package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexfound/apply-engine/internal/domain"
)

const keyPrefix = "session:"

// Store resolves session tokens against Redis.
type Store struct{ rdb *redis.Client }

// New constructs a Store connected to the given address.
func New(addr, password string) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{Addr: addr, Password: password})}
}

type sessionRecord struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Resolve maps a bearer token to the identity it was issued for.
func (s *Store) Resolve(ctx domain.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("op=session.resolve: %w", domain.ErrUnauthenticated)
	}
	val, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Identity{}, fmt.Errorf("op=session.resolve: %w", domain.ErrUnauthenticated)
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("op=session.resolve: %w", err)
	}
	var rec sessionRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil || rec.UserID == "" {
		return domain.Identity{}, fmt.Errorf("op=session.resolve: %w", domain.ErrUnauthenticated)
	}
	return domain.Identity{UserID: rec.UserID, Email: rec.Email}, nil
}

// Put stores a session for a token with the given TTL. Used by dev seeding
// and tests; production sessions are written by the identity service.
func (s *Store) Put(ctx domain.Context, token string, id domain.Identity, ttl time.Duration) error {
	b, err := json.Marshal(sessionRecord{UserID: id.UserID, Email: id.Email})
	if err != nil {
		return fmt.Errorf("op=session.put: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+token, b, ttl).Err(); err != nil {
		return fmt.Errorf("op=session.put: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx domain.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("op=session.ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.rdb.Close() }
