// internal/domain/identity/session.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/pkg/auth"
)

// refreshSkew refreshes ID tokens slightly before they expire
const refreshSkew = time.Minute

// ErrNoRecord is returned by Store when a session has no signed-in user
var ErrNoRecord = errors.New("no session record")

// Record is the persisted state of a signed-in browser session
type Record struct {
	Identity     Identity  `json:"identity"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Remember     bool      `json:"remember"`
}

// Store persists session records
type Store interface {
	Load(ctx context.Context, sessionID string) (*Record, error)
	Save(ctx context.Context, sessionID string, record *Record, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// Session is the identity state of one browser. Components that depend on
// the signed-in user subscribe to it and are called on every change.
type Session struct {
	id      string
	manager *Manager

	mu          sync.Mutex
	record      *Record
	subscribers map[int]func(*Identity)
	nextSub     int
	lastUsed    time.Time

	refreshMu sync.Mutex
}

// ID returns the browser session id
func (s *Session) ID() string {
	return s.id
}

// Current returns the signed-in identity or nil
func (s *Session) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	if s.record == nil {
		return nil
	}
	identity := s.record.Identity
	return &identity
}

// Remember reports whether the user asked for a durable sign-in
func (s *Session) Remember() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record != nil && s.record.Remember
}

// Subscribe registers fn for identity changes. fn is called once right away
// with the current identity. The returned function unsubscribes.
func (s *Session) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	fn(s.Current())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Token returns a valid ID token, refreshing it when it is about to expire
func (s *Session) Token(ctx context.Context) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.Lock()
	record := s.record
	s.mu.Unlock()

	if record == nil {
		return "", ErrNotSignedIn
	}
	if time.Now().Add(refreshSkew).Before(record.ExpiresAt) {
		return record.IDToken, nil
	}

	result, err := s.manager.provider.Refresh(ctx, record.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh id token: %w", err)
	}

	refreshed := *record
	refreshed.IDToken = result.IDToken
	if result.RefreshToken != "" {
		refreshed.RefreshToken = result.RefreshToken
	}
	refreshed.ExpiresAt = expiresAt(result)

	if err := s.manager.store.Save(ctx, s.id, &refreshed, s.manager.ttl(refreshed.Remember)); err != nil {
		s.manager.logger.WithError(err).WithField("session_id", s.id).Warn("Failed to persist refreshed token")
	}

	s.mu.Lock()
	if s.record == record {
		s.record = &refreshed
	}
	s.mu.Unlock()

	return refreshed.IDToken, nil
}

// SignUp creates an account and sends the verification email. The browser
// stays signed out until the address is verified.
func (s *Session) SignUp(ctx context.Context, email, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return &ProviderError{Code: "WEAK_PASSWORD", Message: err.Error()}
	}

	result, err := s.manager.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.manager.provider.SendVerification(ctx, result.IDToken); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.manager.logger.WithField("uid", result.Identity.UID).Info("Account created, verification email sent")
	return nil
}

// SignIn signs in with email and password. Unverified accounts are signed
// out again and ErrEmailNotVerified is returned.
func (s *Session) SignIn(ctx context.Context, email, password string, remember bool) (*Identity, error) {
	result, err := s.manager.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	verified, err := s.manager.provider.Lookup(ctx, result.IDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !verified.EmailVerified {
		if err := s.SignOut(ctx); err != nil {
			return nil, err
		}
		return nil, ErrEmailNotVerified
	}

	result.Identity = *verified
	return s.establish(ctx, result, remember)
}

// SignInWithIdP signs in with a federated credential
func (s *Session) SignInWithIdP(ctx context.Context, req IdPRequest, remember bool) (*Identity, error) {
	if req.ProviderID == "" {
		req.ProviderID = "google.com"
	}
	if req.RequestURI == "" {
		req.RequestURI = s.manager.googleRequestURI
	}

	result, err := s.manager.provider.SignInWithIdP(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result, remember)
}

// SignOut forgets the signed-in user
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.manager.store.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.mu.Lock()
	wasSignedIn := s.record != nil
	s.record = nil
	s.mu.Unlock()

	if wasSignedIn {
		s.notify()
	}
	return nil
}

func (s *Session) establish(ctx context.Context, result *AuthResult, remember bool) (*Identity, error) {
	record := &Record{
		Identity:     result.Identity,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    expiresAt(result),
		Remember:     remember,
	}

	if err := s.manager.store.Save(ctx, s.id, record, s.manager.ttl(remember)); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.record = record
	s.mu.Unlock()

	s.manager.logger.WithFields(logrus.Fields{
		"uid":      record.Identity.UID,
		"remember": remember,
	}).Info("User signed in")

	s.notify()
	identity := record.Identity
	return &identity, nil
}

func (s *Session) notify() {
	current := s.Current()

	s.mu.Lock()
	subscribers := make([]func(*Identity), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(current)
	}
}

func (s *Session) idle(since time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers) == 0 && s.lastUsed.Before(since)
}

func expiresAt(result *AuthResult) time.Time {
	if result.ExpiresIn > 0 {
		return time.Now().Add(result.ExpiresIn)
	}
	if exp, err := auth.IDTokenExpiry(result.IDToken); err == nil {
		return exp
	}
	return time.Now()
}
