package session

import (
	"context"
	"fmt"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements the Store interface using Redis hashes, one hash per
// browser session
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(cfg *config.SessionRedisConfig) (*RedisStore, error) {
	addrs := utils.SplitByMultipleDelimiters(cfg.Addr, ";", ",")
	redisOptions := &redis.UniversalOptions{
		Addrs:    addrs,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.ClusterType == cnst.RedisClusterTypeSentinel {
		redisOptions.MasterName = cfg.MasterName
	}
	if cfg.ClusterType != cnst.RedisClusterTypeCluster {
		// can not set db in cluster mode
		redisOptions.DB = cfg.DB
	}
	client := redis.NewUniversalClient(redisOptions)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "pfc:session:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (s *RedisStore) sessionKey(sessionID string) string {
	return s.prefix + sessionID
}

// Get retrieves a value for the given session and key
func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.sessionKey(sessionID), key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set stores a value and refreshes the session TTL
func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	k := s.sessionKey(sessionID)
	if err := s.client.HSet(ctx, k, key, value).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, k, s.ttl).Err()
}

// Delete removes the given keys from a session
func (s *RedisStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.sessionKey(sessionID), keys...).Err()
}

// Clear removes all keys for a session
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.sessionKey(sessionID)).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
