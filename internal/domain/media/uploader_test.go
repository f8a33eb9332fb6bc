package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
)

type fakeAuth struct {
	calls int
	err   error
}

func (f *fakeAuth) ImageKitAuth(ctx context.Context) (*AuthParams, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &AuthParams{Signature: "sig", Expire: 1700000000, Token: "tok"}, nil
}

func newCDN(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		assert.Equal(t, "public_key", r.FormValue("publicKey"))
		assert.Equal(t, "sig", r.FormValue("signature"))
		assert.Equal(t, "1700000000", r.FormValue("expire"))
		assert.Equal(t, "tok", r.FormValue("token"))
		assert.Equal(t, "true", r.FormValue("useUniqueFileName"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)

		if string(content) == "reject" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Your request contains invalid file"})
			return
		}

		json.NewEncoder(w).Encode(UploadedFile{
			FileID: "f-" + header.Filename,
			Name:   header.Filename,
			URL:    "https://ik.imagekit.io/artiflora/" + header.Filename,
		})
	}))
}

func newTestUploader(server *httptest.Server, auth Authenticator) *Uploader {
	cfg := &config.Config{ImageKit: config.ImageKitConfig{PublicKey: "public_key", UploadURL: server.URL}}
	return NewUploader(auth, cfg, server.Client(), logger.Discard())
}

func TestUploadSendsCredentials(t *testing.T) {
	server := newCDN(t)
	defer server.Close()

	auth := &fakeAuth{}
	uploaded, err := newTestUploader(server, auth).Upload(context.Background(), "vase.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://ik.imagekit.io/artiflora/vase.jpg", uploaded.URL)
	assert.Equal(t, 1, auth.calls)
}

func TestUploadRejectsNonImages(t *testing.T) {
	server := newCDN(t)
	defer server.Close()

	auth := &fakeAuth{}
	_, err := newTestUploader(server, auth).Upload(context.Background(), "notes.txt", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Equal(t, 0, auth.calls)
}

func TestUploadSurfacesCredentialFailure(t *testing.T) {
	server := newCDN(t)
	defer server.Close()

	boom := errors.New("boom")
	_, err := newTestUploader(server, &fakeAuth{err: boom}).Upload(context.Background(), "vase.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, boom)
}

func TestUploadAllCollectsURLs(t *testing.T) {
	server := newCDN(t)
	defer server.Close()

	auth := &fakeAuth{}
	result := newTestUploader(server, auth).UploadAll(context.Background(), []File{
		{Name: "a.jpg", Reader: strings.NewReader("a")},
		{Name: "b.png", Reader: strings.NewReader("reject")},
		{Name: "c.webp", Reader: strings.NewReader("c")},
	})

	assert.Equal(t, []string{
		"https://ik.imagekit.io/artiflora/a.jpg",
		"https://ik.imagekit.io/artiflora/c.webp",
	}, result.URLs)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "b.png", result.Failed[0].Filename)
	assert.Contains(t, result.Failed[0].Error, "invalid file")
	assert.Equal(t, UploadSummary{TotalFiles: 3, SuccessCount: 2, FailureCount: 1}, result.Summary)
	assert.Equal(t, 3, auth.calls)
}
