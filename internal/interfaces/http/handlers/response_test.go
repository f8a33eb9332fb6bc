package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/infrastructure/api"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/order", "/order"},
		{"/products/p1?x=1", "/products/p1?x=1"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, safeNext(tt.next), tt.next)
	}
}

func TestRemoteErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found passes through", &api.Error{StatusCode: http.StatusNotFound, Detail: "Product not found"}, http.StatusNotFound},
		{"forbidden passes through", fmt.Errorf("wrapped: %w", &api.Error{StatusCode: http.StatusForbidden}), http.StatusForbidden},
		{"other client errors", &api.Error{StatusCode: http.StatusUnprocessableEntity, Detail: "bad"}, http.StatusBadRequest},
		{"error body in a 2xx", &api.Error{StatusCode: http.StatusOK, Detail: "gateway down"}, http.StatusBadGateway},
		{"server errors", &api.Error{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"transport", errors.New("connection refused"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			remoteError(c, tt.err, "Failed to load")

			assert.Equal(t, tt.status, w.Code)
			var body map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Failed to load", body["error"])
		})
	}
}

func TestCartErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"storage down", fmt.Errorf("%w: failed to load cart: %w", cart.ErrUnavailable, errors.New("i/o timeout")), http.StatusServiceUnavailable},
		{"row too large", cart.ErrQuantityTooLarge, http.StatusBadRequest},
		{"anything else", errors.New("encode"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			cartError(c, tt.err, "Failed to update cart")

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
