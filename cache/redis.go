package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed feed cache shared across client instances.
// Entries are stored as JSON under a common key prefix.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int    // server-side TTL in seconds, 0 = no expiration
	KeyPrefix string // prefix for all keys (default: "avida:")
}

// NewRedisStore creates a new Redis store with the given configuration.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "avida:"
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves an entry from Redis.
func (s *RedisStore) Get(key string) (Entry, bool) {
	ctx := context.Background()
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		// redis.Nil and transport errors both surface as a cache miss.
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}

// Set stores an entry in Redis.
func (s *RedisStore) Set(key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return s.client.Set(ctx, s.keyPrefix+key, string(data), s.ttl).Err()
}

// Delete removes an entry from Redis.
func (s *RedisStore) Delete(key string) {
	ctx := context.Background()
	_ = s.client.Del(ctx, s.keyPrefix+key).Err()
}

// Keys returns all feed cache keys, with the prefix stripped.
func (s *RedisStore) Keys() []string {
	ctx := context.Background()
	full, err := s.client.Keys(ctx, s.keyPrefix+"*").Result()
	if err != nil {
		return nil
	}

	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, s.keyPrefix))
	}
	return keys
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	ctx := context.Background()
	return s.client.Ping(ctx).Err()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
