package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for a missing or expired session id.
var ErrNotFound = errors.New("session not found")

// Flash is a one-time message rendered on the next page after a redirect.
type Flash struct {
	Kind string `json:"kind"` // "success" or "error"
	Text string `json:"text"`
}

// Session is the server-side state behind one admin cookie. The cookie only
// carries the opaque id; everything else lives in Redis.
type Session struct {
	AdminID int64   `json:"admin_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Flashes []Flash `json:"flashes,omitempty"`
}

// Store holds admin sessions keyed by opaque id. It is deliberately separate
// from the bearer-token track: destroying a session revokes admin access
// immediately, which a stateless token cannot do.
type Store interface {
	Create(ctx context.Context, s *Session) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session) error
	Destroy(ctx context.Context, id string) error
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return "admin_session:" + id
}

func (s *redisStore) Create(ctx context.Context, sess *Session) (string, error) {
	id := uuid.NewString()
	if err := s.Save(ctx, id, sess); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session.Get: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("session.Get unmarshal: %w", err)
	}
	return sess, nil
}

func (s *redisStore) Save(ctx context.Context, id string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session.Save marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

func (s *redisStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session.Destroy: %w", err)
	}
	return nil
}

// AddFlash appends a one-time message to the session when one exists. Adding
// a flash without a session (e.g. a failed login) is a no-op at the store
// level; callers fall back to query parameters in that case.
func AddFlash(ctx context.Context, store Store, id, kind, text string) error {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Flashes = append(sess.Flashes, Flash{Kind: kind, Text: text})
	return store.Save(ctx, id, sess)
}

// PopFlashes returns pending flashes and clears them.
func PopFlashes(ctx context.Context, store Store, id string, sess *Session) []Flash {
	flashes := sess.Flashes
	if len(flashes) == 0 {
		return nil
	}
	sess.Flashes = nil
	// Best effort: a failed save re-shows the message once, which beats
	// silently dropping it.
	_ = store.Save(ctx, id, sess)
	return flashes
}
