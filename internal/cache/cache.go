// Package cache provides a generic TTL/LRU cache for backend snapshots.
package cache

import "time"

// Cleaner is implemented by caches that support expired-entry cleanup.
type Cleaner interface {
	CleanExpired(grace time.Duration) int
}

// Manager runs periodic cleanup for registered caches.
type Manager struct {
	caches      []Cleaner
	grace       time.Duration
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// NewManager creates a cache manager. Entries expired for longer than grace
// are dropped on each sweep.
func NewManager(grace time.Duration) *Manager {
	return &Manager{
		grace:       grace,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins periodic cleanup of all registered caches.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range m.caches {
				c.CleanExpired(m.grace)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop gracefully stops the cleanup routine.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	<-m.cleanupDone
}
