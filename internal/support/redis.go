package support

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Vovarama1992/support-hub/internal/cache"
)

// KV is the subset of the redis client the session store needs.
type KV interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) (int64, error)
}

var _ Store = (*RedisStore)(nil)

// RedisStore keeps each session as one JSON value. Every save refreshes
// the TTL, so idle sessions expire.
type RedisStore struct {
	kv  KV
	ttl time.Duration
}

func NewRedisStore(kv KV, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, ttl: ttl}
}

func sessionKey(id string) string { return "support_session:" + id }

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ok, err := r.kv.SetNX(ctx, sessionKey(s.ID), data, r.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("session already exists")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.kv.Get(ctx, sessionKey(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	normalize(&s)
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if _, err := r.kv.Get(ctx, sessionKey(s.ID)); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return ErrSessionNotFound
		}
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, sessionKey(s.ID), data, r.ttl)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.kv.Del(ctx, sessionKey(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// normalize restores invariants a decoded session may lack.
func normalize(s *Session) {
	if s.Transcript == nil {
		s.Transcript = []Message{}
	}
	counters := NewCounters()
	for k, v := range s.Counters {
		counters[k] = v
	}
	s.Counters = counters
}
