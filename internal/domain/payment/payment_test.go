package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
)

func TestScriptLoaderLoadsOnce(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("window.Razorpay = function() {}"))
	}))
	defer server.Close()

	loader := NewScriptLoader(server.URL+"/v1/checkout.js", server.Client(), logger.Discard())

	for i := 0; i < 3; i++ {
		script, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ScriptElementID, script.ID)
		assert.Equal(t, server.URL+"/v1/checkout.js", script.Src)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestScriptLoaderRetriesAfterFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	loader := NewScriptLoader(server.URL, server.Client(), logger.Discard())

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	fail.Store(false)
	_, err = loader.Load(context.Background())
	assert.NoError(t, err)
}

func TestWidgetOptions(t *testing.T) {
	cfg := &config.Config{Razorpay: config.RazorpayConfig{
		KeyID:        "rzp_test_key",
		MerchantName: "Artiflora",
		Description:  "Complete your payment",
		ThemeColor:   "#E11D48",
	}}
	script := Script{ID: ScriptElementID, Src: "https://checkout.razorpay.com/v1/checkout.js"}

	options := NewWidgetOptions(cfg, &Order{OrderID: "order_1", Amount: 25000}, script, Prefill{Email: "a@example.com", Contact: "9876543210"})

	data, err := json.Marshal(options)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"key": "rzp_test_key",
		"amount": 25000,
		"currency": "INR",
		"order_id": "order_1",
		"name": "Artiflora",
		"description": "Complete your payment",
		"prefill": {"email": "a@example.com", "contact": "9876543210"},
		"theme": {"color": "#E11D48"},
		"script": {"id": "razorpay-script", "src": "https://checkout.razorpay.com/v1/checkout.js"}
	}`, string(data))
}
