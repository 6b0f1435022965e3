package cache

import (
	"context"
	"sync"
	"time"

	"github.com/restopos/backend/internal/domain/shared"
)

// entry represents a recorded session close with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryCloseGuard implements CloseGuard using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryCloseGuard struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCloseGuard creates a new in-memory close guard.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryCloseGuard() *InMemoryCloseGuard {
	guard := &InMemoryCloseGuard{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// Acquire marks a session as being closed with a TTL.
// Returns true if the session was newly marked, false if a close for it was
// already recorded and has not expired.
func (g *InMemoryCloseGuard) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[sessionID]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil // Already closed
		}
		// Entry exists but expired, will be overwritten
	}

	g.entries[sessionID] = entry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Release removes the mark so the session can be closed again
func (g *InMemoryCloseGuard) Release(ctx context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entries, sessionID)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (g *InMemoryCloseGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (g *InMemoryCloseGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

// cleanup removes expired entries from the guard
func (g *InMemoryCloseGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for sessionID, e := range g.entries {
		if now.After(e.expiresAt) {
			delete(g.entries, sessionID)
		}
	}
}

// Ensure InMemoryCloseGuard implements CloseGuard
var _ shared.CloseGuard = (*InMemoryCloseGuard)(nil)
