// internal/infrastructure/firebase/client.go
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
)

// Client is an identity.Provider backed by the Identity Toolkit REST API
type Client struct {
	apiKey       string
	authBaseURL  string
	tokenBaseURL string
	continueURL  string
	httpClient   *http.Client
	logger       *logrus.Logger
}

// NewClient creates a new identity provider client
func NewClient(cfg *config.Config, httpClient *http.Client, logger *logrus.Logger) *Client {
	return &Client{
		apiKey:       cfg.Identity.APIKey,
		authBaseURL:  strings.TrimRight(cfg.Identity.AuthBaseURL, "/"),
		tokenBaseURL: strings.TrimRight(cfg.Identity.TokenBaseURL, "/"),
		continueURL:  cfg.Identity.ContinueURL,
		httpClient:   httpClient,
		logger:       logger,
	}
}

type tokenResponse struct {
	LocalID       string `json:"localId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	DisplayName   string `json:"displayName"`
	IDToken       string `json:"idToken"`
	RefreshToken  string `json:"refreshToken"`
	ExpiresIn     string `json:"expiresIn"`
}

func (t *tokenResponse) result() *identity.AuthResult {
	return &identity.AuthResult{
		Identity: identity.Identity{
			UID:           t.LocalID,
			Email:         t.Email,
			EmailVerified: t.EmailVerified,
			DisplayName:   t.DisplayName,
		},
		IDToken:      t.IDToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    seconds(t.ExpiresIn),
	}
}

// SignUp creates an email and password account
func (c *Client) SignUp(ctx context.Context, email, password string) (*identity.AuthResult, error) {
	var resp tokenResponse
	err := c.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// SignIn signs in with email and password
func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.AuthResult, error) {
	var resp tokenResponse
	err := c.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// SignInWithIdP exchanges a federated credential for a session
func (c *Client) SignInWithIdP(ctx context.Context, req identity.IdPRequest) (*identity.AuthResult, error) {
	postBody := url.Values{}
	postBody.Set("id_token", req.Credential)
	postBody.Set("providerId", req.ProviderID)

	var resp tokenResponse
	err := c.post(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            postBody.Encode(),
		"requestUri":          req.RequestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// SendVerification emails a verification link to the token's owner
func (c *Client) SendVerification(ctx context.Context, idToken string) error {
	body := map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}
	if c.continueURL != "" {
		body["continueUrl"] = c.continueURL
	}
	return c.post(ctx, "accounts:sendOobCode", body, nil)
}

// Lookup returns the account behind idToken
func (c *Client) Lookup(ctx context.Context, idToken string) (*identity.Identity, error) {
	var resp struct {
		Users []tokenResponse `json:"users"`
	}
	if err := c.post(ctx, "accounts:lookup", map[string]interface{}{"idToken": idToken}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, &identity.ProviderError{Code: "USER_NOT_FOUND"}
	}
	user := resp.Users[0]
	return &identity.Identity{
		UID:           user.LocalID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		DisplayName:   user.DisplayName,
	}, nil
}

// Refresh exchanges a refresh token for a new ID token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*identity.AuthResult, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := c.tokenBaseURL + "/token?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return &identity.AuthResult{
		Identity:     identity.Identity{UID: resp.UserID},
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    seconds(resp.ExpiresIn),
	}, nil
}

func (c *Client) post(ctx context.Context, method string, data interface{}, dest interface{}) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	endpoint := c.authBaseURL + "/" + method + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		code := "internal-error"
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			code = envelope.Error.Message
		}
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"code":   code,
		}).Debug("Identity provider rejected request")
		return &identity.ProviderError{Code: code}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse identity provider response: %w", err)
	}
	return nil
}

func seconds(value string) time.Duration {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
