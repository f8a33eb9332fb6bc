// internal/domain/access/registry.go
package access

import (
	"context"
	"sync"
	"time"
)

type watchEntry struct {
	watcher  *Watcher
	lastUsed time.Time
}

// Registry keeps one Watcher per browser session
type Registry struct {
	checker *Checker

	mu       sync.Mutex
	watchers map[string]*watchEntry
}

// NewRegistry creates an empty registry
func NewRegistry(checker *Checker) *Registry {
	return &Registry{
		checker:  checker,
		watchers: make(map[string]*watchEntry),
	}
}

// Watch returns the watcher of sessionID, starting one on first use
func (r *Registry) Watch(sessionID string, source Source) *Watcher {
	r.mu.Lock()
	if entry, ok := r.watchers[sessionID]; ok {
		entry.lastUsed = time.Now()
		r.mu.Unlock()
		return entry.watcher
	}
	r.mu.Unlock()

	watcher := r.checker.Watch(context.Background(), source)

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.watchers[sessionID]; ok {
		// Lost a race with another request for the same session
		watcher.Close()
		entry.lastUsed = time.Now()
		return entry.watcher
	}
	r.watchers[sessionID] = &watchEntry{watcher: watcher, lastUsed: time.Now()}
	return watcher
}

// Sweep closes watchers unused for longer than idle
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.watchers {
		if entry.lastUsed.Before(cutoff) {
			entry.watcher.Close()
			delete(r.watchers, id)
			removed++
		}
	}
	return removed
}

// Close stops every watcher
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.watchers {
		entry.watcher.Close()
		delete(r.watchers, id)
	}
}
