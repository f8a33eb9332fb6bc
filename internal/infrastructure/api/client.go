// internal/infrastructure/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
)

// Error is a failure reported by the remote API
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the remote API
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 from the remote API
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// Client talks to the remote REST API that owns products, orders and the
// server side of payments
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		logger: logger,
	}
}

// NewClientWithHTTP creates a client using httpClient, for tests
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Health checks that the remote API answers
func (c *Client) Health(ctx context.Context) error {
	_, err := c.makeAPICall(ctx, http.MethodGet, "/health", "", nil)
	return err
}

// makeAPICall sends a JSON request and returns the raw response body.
// Non-2xx responses become *Error carrying the server's detail message.
func (c *Client) makeAPICall(ctx context.Context, method, endpoint, token string, data interface{}) ([]byte, error) {
	var reqBody io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   endpoint,
		"status": resp.StatusCode,
	}).Debug("Remote API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{StatusCode: resp.StatusCode, Detail: detailFrom(respBody)}
	}

	return respBody, nil
}

// call makes the request and decodes the response into dest when given
func (c *Client) call(ctx context.Context, method, endpoint, token string, data, dest interface{}) error {
	body, err := c.makeAPICall(ctx, method, endpoint, token, data)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}
	return nil
}

// detailFrom extracts a readable message from an error body. The API
// answers {"detail": "..."} or a list of validation problems.
func detailFrom(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return strings.TrimSpace(string(body))
	}
	if envelope.Error != "" {
		return envelope.Error
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		return detail
	}

	var problems []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &problems); err == nil && len(problems) > 0 {
		messages := make([]string, 0, len(problems))
		for _, p := range problems {
			field := ""
			if len(p.Loc) > 0 {
				field = fmt.Sprint(p.Loc[len(p.Loc)-1]) + ": "
			}
			messages = append(messages, field+p.Msg)
		}
		return strings.Join(messages, "; ")
	}

	return ""
}
