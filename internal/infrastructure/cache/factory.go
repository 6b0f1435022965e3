package cache

import (
	"fmt"

	"github.com/restopos/backend/internal/domain/shared"
	"github.com/restopos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CloseGuardFactory creates close guards based on configuration
type CloseGuardFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CloseGuardFactoryOption is a functional option for configuring the factory
type CloseGuardFactoryOption func(*CloseGuardFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CloseGuardFactoryOption {
	return func(f *CloseGuardFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory guard
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) CloseGuardFactoryOption {
	return func(f *CloseGuardFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCloseGuardFactory creates a new factory
func NewCloseGuardFactory(cfg config.RedisConfig, opts ...CloseGuardFactoryOption) *CloseGuardFactory {
	f := &CloseGuardFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisGuard creates a Redis-based close guard
func (f *CloseGuardFactory) CreateRedisGuard() (shared.CloseGuard, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	guard, err := NewRedisCloseGuard(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis close guard: %w", err)
	}

	return guard, nil
}

// CreateInMemoryGuard creates an in-memory close guard.
// WARNING: in-memory guards do not share state across process instances,
// so a session could be closed twice by two different instances.
func (f *CloseGuardFactory) CreateInMemoryGuard() shared.CloseGuard {
	return NewInMemoryCloseGuard()
}

// CreateGuard creates a close guard based on Redis availability. It tries
// Redis first and falls back to in-memory when allowed.
func (f *CloseGuardFactory) CreateGuard() (shared.CloseGuard, error) {
	guard, err := f.CreateRedisGuard()
	if err == nil {
		f.logger.Info("using Redis close guard")
		return guard, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for close guard but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory close guard. "+
		"A session could be closed twice across process instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryGuard(), nil
}
