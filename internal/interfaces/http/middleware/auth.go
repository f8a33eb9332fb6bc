// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/access"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/pkg/auth"
)

// SessionCookieName is the cookie carrying the signed browser session token
const SessionCookieName = "artiflora_session"

const (
	sessionIDKey       = "session_id"
	identitySessionKey = "identity_session"
)

// Sessions binds every request to a browser session
type Sessions struct {
	jwtManager *auth.JWTManager
	identities *identity.Manager
	config     *config.Config
	logger     *logrus.Logger
}

// NewSessions creates the browser session middleware
func NewSessions(jwtManager *auth.JWTManager, identities *identity.Manager, cfg *config.Config, logger *logrus.Logger) *Sessions {
	return &Sessions{
		jwtManager: jwtManager,
		identities: identities,
		config:     cfg,
		logger:     logger,
	}
}

// Middleware resolves the session from its cookie, starting a new one when
// the cookie is missing or invalid
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if cookie, err := c.Cookie(SessionCookieName); err == nil {
			if claims, err := s.jwtManager.ValidateSessionToken(cookie); err == nil {
				sessionID = claims.SessionID
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			if err := s.Issue(c, sessionID, false); err != nil {
				s.logger.WithError(err).Error("Failed to issue session cookie")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}
		}

		c.Set(sessionIDKey, sessionID)
		c.Set(identitySessionKey, s.identities.Session(c.Request.Context(), sessionID))
		c.Next()
	}
}

// Issue writes the session cookie. A remembered session gets a persistent
// cookie; otherwise it ends with the browser.
func (s *Sessions) Issue(c *gin.Context, sessionID string, remember bool) error {
	token, err := s.jwtManager.GenerateSessionToken(sessionID, remember)
	if err != nil {
		return err
	}

	maxAge := 0
	if remember {
		maxAge = int(s.config.JWT.TokenExpiry.Seconds())
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", s.config.Security.CookieSecure, true)
	return nil
}

// RequireSignIn rejects requests without a signed-in user and points the
// browser at the login page with a way back
func RequireSignIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := IdentitySessionFromContext(c)
		if !ok || session.Current() == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": LoginRedirect(c.Request.URL.Path),
			})
			return
		}
		c.Next()
	}
}

// AdminGate only lets administrators through. The admin check follows the
// identity of the session and is reused across requests; a check that failed
// runs again on the next request.
func AdminGate(registry *access.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := IdentitySessionFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   access.TitleAccessDenied,
				"details": access.MessageAccessDenied,
			})
			return
		}

		watcher := registry.Watch(SessionIDFromContext(c), session)
		state := watcher.State()
		if state.Error != "" {
			// A failed check is retried on the next visit
			state = watcher.Recheck(c.Request.Context())
		}
		switch {
		case state.Loading:
			c.AbortWithStatusJSON(http.StatusAccepted, gin.H{
				"message": access.MessageVerifying,
				"data":    state,
			})
		case state.Error != "":
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   access.TitleAuthError,
				"details": state.Error,
			})
		case !state.IsAdmin:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   access.TitleAccessDenied,
				"details": access.MessageAccessDenied,
			})
		default:
			c.Next()
		}
	}
}

// LoginRedirect returns the login URL that comes back to path
func LoginRedirect(path string) string {
	return "/login?next=" + url.QueryEscape(path)
}

// SessionIDFromContext returns the browser session id
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// IdentitySessionFromContext returns the identity session of the browser
func IdentitySessionFromContext(c *gin.Context) (*identity.Session, bool) {
	value, exists := c.Get(identitySessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*identity.Session)
	return session, ok
}
