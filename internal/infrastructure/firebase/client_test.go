package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{Identity: config.IdentityConfig{
		APIKey:       "web-key",
		AuthBaseURL:  server.URL + "/v1",
		TokenBaseURL: server.URL + "/securetoken/v1",
	}}
	return NewClient(cfg, server.Client(), logger.Discard())
}

func TestSignInParsesTokens(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "a@example.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		w.Write([]byte(`{"localId":"uid-1","email":"a@example.com","idToken":"id","refreshToken":"rt","expiresIn":"3600"}`))
	})

	result, err := client.SignIn(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", result.Identity.UID)
	assert.Equal(t, "rt", result.RefreshToken)
	assert.Equal(t, time.Hour, result.ExpiresIn)
}

func TestProviderErrorsAreTyped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD","errors":[]}}`))
	})

	_, err := client.SignIn(context.Background(), "a@example.com", "nope")
	var providerErr *identity.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "INVALID_PASSWORD", providerErr.Code)
	assert.Equal(t, "Error: Wrong password", identity.ErrorMessage(err))
}

func TestLookupReportsVerification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:lookup", r.URL.Path)
		w.Write([]byte(`{"users":[{"localId":"uid-1","email":"a@example.com","emailVerified":true}]}`))
	})

	user, err := client.Lookup(context.Background(), "id")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestSendVerification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "VERIFY_EMAIL", body["requestType"])
		assert.Equal(t, "id", body["idToken"])
		w.Write([]byte(`{"email":"a@example.com"}`))
	})

	assert.NoError(t, client.SendVerification(context.Background(), "id"))
}

func TestSignInWithIdPBuildsPostBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)

		postBody, err := url.ParseQuery(body["postBody"].(string))
		assert.NoError(t, err)
		assert.Equal(t, "google-jwt", postBody.Get("id_token"))
		assert.Equal(t, "google.com", postBody.Get("providerId"))
		assert.Equal(t, "http://localhost/login", body["requestUri"])

		w.Write([]byte(`{"localId":"uid-2","email":"g@example.com","emailVerified":true,"idToken":"id","refreshToken":"rt","expiresIn":"3600"}`))
	})

	result, err := client.SignInWithIdP(context.Background(), identity.IdPRequest{
		ProviderID: "google.com",
		Credential: "google-jwt",
		RequestURI: "http://localhost/login",
	})
	require.NoError(t, err)
	assert.True(t, result.Identity.EmailVerified)
}

func TestRefreshUsesFormEncoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/securetoken/v1/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "rt", r.PostForm.Get("refresh_token"))
		w.Write([]byte(`{"id_token":"id-2","refresh_token":"rt-2","expires_in":"3600","user_id":"uid-1"}`))
	})

	result, err := client.Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "id-2", result.IDToken)
	assert.Equal(t, "rt-2", result.RefreshToken)
	assert.Equal(t, time.Hour, result.ExpiresIn)
}
