// Package revoke records revoked token identifiers (jti) in Redis.
//
// Entries expire on their own once the token they block could no longer be
// used, so the keyspace stays bounded by the number of live revoked tokens.
package revoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimeout bounds every round-trip to Redis.
const DefaultTimeout = 500 * time.Millisecond

// ErrUnavailable wraps every failure to reach the backing store. Callers must
// fail closed on it.
var ErrUnavailable = errors.New("revoke: store unavailable")

// Store is the revocation list consulted on every authenticated request.
type Store interface {
	// Revoke blocks jti for ttl. Revoking twice is harmless.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Consume atomically marks jti as used and reports whether this call was
	// the first. Used to make one-shot tokens single-use.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)

	// Release undoes Consume so the token can be used again. Releasing an
	// unknown jti is harmless.
	Release(ctx context.Context, jti string) error

	// Ping checks connectivity for readiness probes.
	Ping(ctx context.Context) error
}

// Options configures a RedisStore.
type Options struct {
	// Prefix namespaces keys, e.g. "bookly:revoked:session".
	Prefix string

	// MaxTTL is used when a caller passes a non-positive ttl. It should be
	// the longest lifetime any token in the namespace can have.
	MaxTTL time.Duration

	// Timeout bounds each Redis call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// RedisStore implements Store on top of a go-redis client. Values are a
// single marker byte; presence of the key is the revocation.
type RedisStore struct {
	rdb     redis.UniversalClient
	prefix  string
	maxTTL  time.Duration
	timeout time.Duration
}

// NewRedisStore wraps rdb. The client is owned by the caller.
func NewRedisStore(rdb redis.UniversalClient, opts Options) *RedisStore {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxTTL <= 0 {
		opts.MaxTTL = 48 * time.Hour
	}
	return &RedisStore{
		rdb:     rdb,
		prefix:  opts.Prefix,
		maxTTL:  opts.MaxTTL,
		timeout: opts.Timeout,
	}
}

func (s *RedisStore) key(jti string) string {
	if s.prefix == "" {
		return jti
	}
	return s.prefix + ":" + jti
}

func (s *RedisStore) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > s.maxTTL {
		return s.maxTTL
	}
	// Redis rejects sub-millisecond expiries.
	return max(ttl, time.Millisecond)
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("revoke: empty jti")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.key(jti), "1", s.ttl(ttl)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.rdb.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return false, errors.New("revoke: empty jti")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ok, err := s.rdb.SetNX(ctx, s.key(jti), "1", s.ttl(ttl)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, jti string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
