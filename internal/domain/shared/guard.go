package shared

import (
	"context"
	"time"
)

// CloseGuard records sessions whose stock consumption has already been
// committed, so that a second close of the same session cannot decrement
// inventory twice.
type CloseGuard interface {
	// Acquire marks a session as being closed.
	// Returns true if the session was newly marked, false if a close for it
	// was already recorded.
	Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)

	// Release removes the mark, allowing the session to be closed again.
	// Used when a close attempt fails before any stock was written.
	Release(ctx context.Context, sessionID string) error

	// Close closes the guard and releases resources
	Close() error
}

// CloseGuardConfig holds configuration for the session close guard
type CloseGuardConfig struct {
	// TTL is how long a committed session ID is retained.
	// After this duration the same session could be closed again.
	TTL time.Duration

	// Enabled determines whether the guard is consulted at all
	Enabled bool
}

// DefaultCloseGuardConfig returns the default close guard configuration
func DefaultCloseGuardConfig() CloseGuardConfig {
	return CloseGuardConfig{
		TTL:     72 * time.Hour,
		Enabled: true,
	}
}
