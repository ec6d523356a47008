package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several server instances share them.
// Each session is a JSON value whose key expires with the session.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// Compile-time check that *RedisStore satisfies Store.
var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. prefix namespaces the keys.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "huddle:session"
	}
	return &RedisStore{redis: client, prefix: prefix}
}

// OpenRedis connects to the Redis server named by rawURL (redis:// or rediss://).
// PRE: rawURL is a Redis URL
// POST: Returns a store whose server answered PING
func OpenRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, ""), nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":" + id
}

// Create stores the session with a TTL matching its expiry.
// PRE: s.ExpiresAt is in the future
// POST: The key disappears when the session expires
func (s *RedisStore) Create(ctx context.Context, sess Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired at %s", sess.ExpiresAt.Format(time.RFC3339))
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.redis.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

// Get retrieves a session by id.
// PRE: id is non-empty
// POST: Returns ErrNotFound when the key is missing or expired
func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes the session key.
// PRE: none
// POST: Session with given id is removed
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, s.key(id)).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
