// internal/domain/identity/entity.go
package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotSignedIn is returned when an operation needs a signed-in user
	ErrNotSignedIn = errors.New("not signed in")
	// ErrEmailNotVerified is returned when a password sign-in is attempted
	// before the email address was verified
	ErrEmailNotVerified = errors.New("email not verified")
)

// Messages shown on the login page
const (
	MessageSignedUp         = "Account created. Please check your inbox to verify your email."
	MessageEmailNotVerified = "Email not verified. Please check your inbox."
	MessageSignedIn         = "Login successful! Redirecting..."
	MessageGoogleSignedIn   = "Google Login successful! Redirecting..."
)

// Identity is the signed-in principal as reported by the identity provider
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	DisplayName   string `json:"display_name,omitempty"`
}

// AuthResult is returned by every provider call that yields tokens
type AuthResult struct {
	Identity     Identity
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// IdPRequest carries a federated credential, such as a Google ID token
type IdPRequest struct {
	ProviderID string `json:"provider_id"`
	Credential string `json:"credential" binding:"required"`
	RequestURI string `json:"request_uri"`
}

// Provider is the external identity service
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignInWithIdP(ctx context.Context, req IdPRequest) (*AuthResult, error)
	SendVerification(ctx context.Context, idToken string) error
	Lookup(ctx context.Context, idToken string) (*Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

// TokenSource yields a current bearer token for the remote API
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ProviderError is an error code reported by the identity provider
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" && e.Message != e.Code {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// Provider REST codes mapped onto the short codes users are shown
var providerCodes = map[string]string{
	"EMAIL_EXISTS":                "email-already-in-use",
	"EMAIL_NOT_FOUND":             "user-not-found",
	"INVALID_PASSWORD":            "wrong-password",
	"INVALID_LOGIN_CREDENTIALS":   "invalid-credential",
	"INVALID_EMAIL":               "invalid-email",
	"USER_DISABLED":               "user-disabled",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "too-many-requests",
	"WEAK_PASSWORD":               "weak-password",
	"OPERATION_NOT_ALLOWED":       "operation-not-allowed",
	"TOKEN_EXPIRED":               "user-token-expired",
	"INVALID_ID_TOKEN":            "invalid-user-token",
	"MISSING_PASSWORD":            "missing-password",
}

// Translate turns a provider code into readable text, for example
// "auth/wrong-password" or "INVALID_PASSWORD" into "wrong password"
func Translate(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.Index(code, " : "); i >= 0 {
		code = code[:i]
	}
	if short, ok := providerCodes[code]; ok {
		code = short
	}
	code = strings.TrimPrefix(code, "auth/")
	code = strings.ReplaceAll(code, "-", " ")
	code = strings.ReplaceAll(code, "_", " ")
	return strings.ToLower(code)
}

// ErrorMessage renders err for the login page
func ErrorMessage(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		message := Translate(providerErr.Code)
		if message == "" {
			return "Error: Something went wrong"
		}
		return "Error: " + strings.ToUpper(message[:1]) + message[1:]
	}
	if errors.Is(err, ErrEmailNotVerified) {
		return MessageEmailNotVerified
	}
	return err.Error()
}
