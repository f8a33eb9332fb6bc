// internal/interfaces/http/handlers/response.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
	"github.com/your-org/artiflora-storefront/internal/interfaces/http/middleware"
)

// MessageSessionExpired is shown when the identity provider no longer
// accepts the session's refresh token
const MessageSessionExpired = "Your session has expired. Please log in again."

// ViewState is the per-operation result shown next to a form or list
type ViewState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

// identitySession returns the identity session bound by the session middleware
func identitySession(c *gin.Context) *identity.Session {
	session, ok := middleware.IdentitySessionFromContext(c)
	if !ok {
		panic("identity session missing from context")
	}
	return session
}

// bearerToken returns a current ID token for the remote API, writing the
// 401 response itself when none can be obtained
func bearerToken(c *gin.Context) (string, bool) {
	token, err := identitySession(c).Token(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    MessageSessionExpired,
			"redirect": middleware.LoginRedirect(c.Request.URL.Path),
		})
		return "", false
	}
	return token, true
}

// remoteError writes a failure of the remote API. The server's detail
// message is passed through; message is the view's fallback text.
func remoteError(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		switch {
		case status == http.StatusNotFound, status == http.StatusUnauthorized, status == http.StatusForbidden:
		case status >= 400 && status < 500:
			status = http.StatusBadRequest
		default:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error":   message,
			"details": apiErr.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": message,
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   message,
			"details": err.Error(),
		})
	}
}

func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
