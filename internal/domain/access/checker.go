// internal/domain/access/checker.go
package access

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
)

// Views shown by the admin gate
const (
	MessageVerifying    = "Verifying Access..."
	TitleAuthError      = "Authentication Error"
	TitleAccessDenied   = "Access Denied"
	MessageAccessDenied = "This protected area is for administrators only."
)

// Principal is the caller as seen by the remote API
type Principal struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Directory asks the remote API who the bearer of a token is
type Directory interface {
	Me(ctx context.Context, token string) (*Principal, error)
}

// State is the outcome of an admin check
type State struct {
	IsAdmin bool   `json:"is_admin"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Checker decides whether the signed-in user is an administrator
type Checker struct {
	directory Directory
	logger    *logrus.Logger
}

// NewChecker creates a new access checker
func NewChecker(directory Directory, logger *logrus.Logger) *Checker {
	return &Checker{
		directory: directory,
		logger:    logger,
	}
}

// Check resolves the admin flag for user. It never fails: problems are
// reported in State.Error with IsAdmin false.
func (c *Checker) Check(ctx context.Context, user *identity.Identity, tokens identity.TokenSource) State {
	if user == nil {
		return State{}
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("uid", user.UID).Warn("Admin check could not obtain a token")
		return State{Error: err.Error()}
	}

	principal, err := c.directory.Me(ctx, token)
	if err != nil {
		c.logger.WithError(err).WithField("uid", user.UID).Warn("Admin check failed")
		return State{Error: err.Error()}
	}

	return State{IsAdmin: principal.IsAdmin}
}

// Source is a session the watcher can follow
type Source interface {
	identity.TokenSource
	Subscribe(fn func(*identity.Identity)) func()
}

// Watcher keeps an admin check current as the identity of a session changes
type Watcher struct {
	checker     *Checker
	source      Source
	unsubscribe func()

	mu         sync.Mutex
	state      State
	user       *identity.Identity
	generation int
	done       chan struct{}
}

// Watch subscribes to source and re-runs the check on every identity change
func (c *Checker) Watch(ctx context.Context, source Source) *Watcher {
	w := &Watcher{
		checker: c,
		source:  source,
		done:    make(chan struct{}),
	}
	w.unsubscribe = source.Subscribe(func(user *identity.Identity) {
		w.refresh(ctx, user)
	})
	return w
}

// State returns the latest check result
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Recheck runs the check again for the identity last seen and returns the
// result. A failed check is otherwise kept until the identity changes.
func (w *Watcher) Recheck(ctx context.Context) State {
	w.mu.Lock()
	user := w.user
	w.mu.Unlock()

	select {
	case <-w.done:
		return w.State()
	default:
	}

	w.refresh(ctx, user)
	return w.State()
}

// Close stops following identity changes
func (w *Watcher) Close() {
	w.mu.Lock()
	unsubscribe := w.unsubscribe
	w.unsubscribe = nil
	w.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
		close(w.done)
	}
}

func (w *Watcher) refresh(ctx context.Context, user *identity.Identity) {
	w.mu.Lock()
	w.generation++
	generation := w.generation
	w.user = user
	w.state = State{Loading: user != nil}
	w.mu.Unlock()

	if user == nil {
		return
	}

	state := w.checker.Check(ctx, user, w.source)

	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	// A newer identity change supersedes this result
	if generation == w.generation {
		w.state = state
	}
}
