package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plughost/credhub/internal/auth"
	"github.com/plughost/credhub/internal/server/handlers"
)

// denyAll rejects every request
type denyAll struct{}

func (d *denyAll) Authenticate(r *http.Request) (*auth.User, error) {
	return nil, fmt.Errorf("invalid credentials")
}

func (d *denyAll) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func getMetrics(t *testing.T, metrics *handlers.MetricsHandler) handlers.MetricsResponse {
	t.Helper()

	rr := httptest.NewRecorder()
	metrics.GetMetrics(rr, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.MetricsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestRequireAuth_CountsAuthFailures(t *testing.T) {
	metrics := handlers.NewMetricsHandler(testLogger())
	protected := RequireAuth(&denyAll{}, metrics)(okHandler())

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/namespace/ns/credential/id", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	resp := getMetrics(t, metrics)
	assert.Equal(t, uint64(3), resp.ByStatus["auth_failures"])
}

func TestRateLimiter_CountsRejections(t *testing.T) {
	metrics := handlers.NewMetricsHandler(testLogger())
	limited := NewRateLimiter(2, false, metrics)(okHandler())

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/provider", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	limited.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/provider", nil))
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	resp := getMetrics(t, metrics)
	assert.Equal(t, uint64(1), resp.ByStatus["rate_limit_exceeded"])
}

func TestRateLimiter_IgnoresSpoofedProxyHeaders(t *testing.T) {
	limited := NewRateLimiter(2, false, nil)(okHandler())

	// Rotating forged headers must not mint fresh buckets; all requests
	// share one socket address
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/provider", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/provider", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.99")
	rr := httptest.NewRecorder()
	limited.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimiter_TrustedProxyUsesForwardedFor(t *testing.T) {
	limited := NewRateLimiter(1, true, nil)(okHandler())

	// Distinct forwarded clients get distinct buckets when headers are
	// trusted
	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/provider", nil)
		req.Header.Set("X-Forwarded-For", ip+", 192.168.1.1")
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestLogging_CountsTotalRequests(t *testing.T) {
	metrics := handlers.NewMetricsHandler(testLogger())
	logged := Logging(testLogger(), metrics)(okHandler())

	for i := 0; i < 4; i++ {
		rr := httptest.NewRecorder()
		logged.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	resp := getMetrics(t, metrics)
	assert.Equal(t, uint64(4), resp.Total)
}
