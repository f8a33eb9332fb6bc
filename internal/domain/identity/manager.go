// internal/domain/identity/manager.go
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
)

// Manager hands out the live Session of each browser, rehydrating it from
// the store the first time it is seen
type Manager struct {
	provider         Provider
	store            Store
	rememberTTL      time.Duration
	sessionTTL       time.Duration
	googleRequestURI string
	logger           *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a new session manager
func NewManager(provider Provider, store Store, cfg *config.Config, logger *logrus.Logger) *Manager {
	return &Manager{
		provider:         provider,
		store:            store,
		rememberTTL:      cfg.Identity.RememberTTL,
		sessionTTL:       cfg.Identity.SessionTTL,
		googleRequestURI: cfg.Identity.GoogleRequestURI,
		logger:           logger,
		sessions:         make(map[string]*Session),
	}
}

// Session returns the session for sessionID. The stored record is loaded
// outside the manager lock so one slow store call does not hold up other
// browsers.
func (m *Manager) Session(ctx context.Context, sessionID string) *Session {
	m.mu.Lock()
	if session, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		return session
	}
	m.mu.Unlock()

	session := &Session{
		id:          sessionID,
		manager:     m,
		subscribers: make(map[int]func(*Identity)),
		lastUsed:    time.Now(),
	}

	record, err := m.store.Load(ctx, sessionID)
	switch {
	case err == nil:
		session.record = record
	case errors.Is(err, ErrNoRecord):
	default:
		m.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to load session, treating as signed out")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sessionID]; ok {
		// Another request for the same browser got there first
		return existing
	}
	m.sessions[sessionID] = session
	return session
}

// Sweep drops in-memory sessions unused since before now-idle that nobody
// is subscribed to. Their records stay in the store.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.idle(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) ttl(remember bool) time.Duration {
	if remember {
		return m.rememberTTL
	}
	return m.sessionTTL
}
