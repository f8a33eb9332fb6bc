// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/middleware"
)

// AuthHandler handles the login page
type AuthHandler struct {
	sessions *middleware.Sessions
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *middleware.Sessions, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CredentialsRequest is the email and password form
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// GoogleLoginRequest carries the Google ID token obtained by the browser
type GoogleLoginRequest struct {
	identity.IdPRequest
	Remember bool `json:"remember"`
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	session := identitySession(c)
	user := session.Current()

	c.JSON(http.StatusOK, gin.H{
		"message": "Login page",
		"data": gin.H{
			"signed_in": user != nil,
			"user":      user,
			"remember":  session.Remember(),
			"next":      safeNext(c.Query("next")),
		},
	})
}

// SignUp handles POST /signup. The account stays signed out until the email
// address is verified.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if err := identitySession(c).SignUp(c.Request.Context(), req.Email, req.Password); err != nil {
		h.authFailure(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": identity.MessageSignedUp,
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	user, err := identitySession(c).SignIn(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		h.authFailure(c, err, http.StatusUnauthorized)
		return
	}

	h.signedIn(c, user, req.Remember, identity.MessageSignedIn)
}

// GoogleLogin handles POST /login/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	user, err := identitySession(c).SignInWithIdP(c.Request.Context(), req.IdPRequest, req.Remember)
	if err != nil {
		h.authFailure(c, err, http.StatusUnauthorized)
		return
	}

	h.signedIn(c, user, req.Remember, identity.MessageGoogleSignedIn)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := identitySession(c)
	if err := session.SignOut(c.Request.Context()); err != nil {
		h.logger.WithError(err).WithField("session_id", session.ID()).Error("Failed to log out")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to log out",
		})
		return
	}

	// The browser keeps its cart, only the remember flag is dropped
	if err := h.sessions.Issue(c, session.ID(), false); err != nil {
		h.logger.WithError(err).Warn("Failed to reissue session cookie")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
		"data": gin.H{
			"redirect": "/",
		},
	})
}

func (h *AuthHandler) signedIn(c *gin.Context, user *identity.Identity, remember bool, message string) {
	if err := h.sessions.Issue(c, middleware.SessionIDFromContext(c), remember); err != nil {
		h.logger.WithError(err).Error("Failed to issue session cookie")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data": gin.H{
			"user":     user,
			"redirect": safeNext(c.Query("next")),
		},
	})
}

func (h *AuthHandler) authFailure(c *gin.Context, err error, status int) {
	var providerErr *identity.ProviderError
	switch {
	case errors.Is(err, identity.ErrEmailNotVerified):
		status = http.StatusForbidden
	case errors.As(err, &providerErr):
	default:
		h.logger.WithError(err).Error("Identity provider request failed")
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"error": identity.ErrorMessage(err),
	})
}

// safeNext only follows local paths after login
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
