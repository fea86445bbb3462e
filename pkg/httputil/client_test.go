package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dragonboard/pkg/config"
	"github.com/wonny/dragonboard/pkg/logger"
)

func testClient() *Client {
	return New(&config.Config{Env: "development"}, logger.Nop())
}

func TestNew(t *testing.T) {
	client := testClient()

	require.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 3, client.retryConfig.MaxRetries)
	assert.Equal(t, "none", client.BreakerState())
}

func TestNew_UsesUpstreamTimeout(t *testing.T) {
	cfg := &config.Config{Eastmoney: config.EastmoneyConfig{Timeout: 7 * time.Second}}
	client := New(cfg, logger.Nop())
	assert.Equal(t, 7*time.Second, client.httpClient.Timeout)
}

func TestBuilderOptions(t *testing.T) {
	client := testClient().WithRetry(5, 2*time.Second).WithPacing(10, 0)

	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, client.retryConfig.InitialDelay)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 1, client.limiter.Burst())

	client.DisableRetry().WithPacing(0, 0)
	assert.False(t, client.retryConfig.Enabled)
	assert.Nil(t, client.limiter)
}

func TestGetBody_SendsDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "https://quote.eastmoney.com/", r.Header.Get("Referer"))
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := testClient().WithHeader("Referer", "https://quote.eastmoney.com/")

	body, err := client.GetBody(context.Background(), server.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestGetBody_NonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient().GetBody(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := testClient().WithRetry(3, 5*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient().DisableRetry().WithBreaker("test", 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, server.URL)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrBreakerOpen)
	}

	_, err := client.Get(ctx, server.URL)
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, "open", client.BreakerState())
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.statusCode))
		})
	}
}
