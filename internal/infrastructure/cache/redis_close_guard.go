package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/restopos/backend/internal/domain/shared"
)

// RedisCloseGuard implements CloseGuard using Redis. Suitable for
// deployments where several instances may attempt to close the same
// session and need to share the guard state.
type RedisCloseGuard struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCloseGuard creates a new Redis-based close guard
func NewRedisCloseGuard(cfg RedisConfig) (*RedisCloseGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCloseGuard{
		client:    client,
		keyPrefix: "pos:session:closed:",
	}, nil
}

// NewRedisCloseGuardWithClient creates a guard with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisCloseGuardWithClient(client *redis.Client, keyPrefix string) *RedisCloseGuard {
	if keyPrefix == "" {
		keyPrefix = "pos:session:closed:"
	}
	return &RedisCloseGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire marks a session as being closed with a TTL.
// Returns true if the session was newly marked, false if a close was
// already recorded. Uses SETNX for atomicity across instances.
func (g *RedisCloseGuard) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	key := g.keyPrefix + sessionID

	result, err := g.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark session as closed: %w", err)
	}

	return result, nil
}

// Release removes the mark so the session can be closed again
func (g *RedisCloseGuard) Release(ctx context.Context, sessionID string) error {
	key := g.keyPrefix + sessionID

	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release session close mark: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisCloseGuard) Close() error {
	return g.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (g *RedisCloseGuard) GetClient() *redis.Client {
	return g.client
}

// Ensure RedisCloseGuard implements CloseGuard
var _ shared.CloseGuard = (*RedisCloseGuard)(nil)
