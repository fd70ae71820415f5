package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifepath/internal/ratelimit/models"
	"lifepath/pkg/platform/circuit"
	"lifepath/pkg/testutil"
)

type stubLimiter struct {
	result *models.RateLimitResult
	err    error
	calls  int
	lastIP string
}

func (s *stubLimiter) CheckIP(_ context.Context, ip string, _ models.EndpointClass) (*models.RateLimitResult, error) {
	s.calls++
	s.lastIP = ip
	return s.result, s.err
}

var resetAt = time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)

func allowed(remaining int) *models.RateLimitResult {
	return &models.RateLimitResult{Allowed: true, Limit: 5, Remaining: remaining, ResetAt: resetAt}
}

func denied() *models.RateLimitResult {
	return &models.RateLimitResult{Allowed: false, Limit: 5, ResetAt: resetAt, RetryAfter: 42}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, m *Middleware) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	h := m.RateLimit(models.ClassGenerate)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/generate-report", nil)
	req = testutil.WithClient(req, "203.0.113.7", "curl/8.0")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, reached
}

func TestRateLimit_AllowedSetsHeaders(t *testing.T) {
	primary := &stubLimiter{result: allowed(3)}
	rec, reached := serve(t, New(primary, discardLogger()))

	assert.True(t, reached)
	assert.Equal(t, "203.0.113.7", primary.lastIP)
	assert.Equal(t, "5", rec.Header().Get(HeaderLimit))
	assert.Equal(t, "3", rec.Header().Get(HeaderRemaining))
	assert.Equal(t, "1748779260", rec.Header().Get(HeaderReset))
	assert.Empty(t, rec.Header().Get(HeaderStatus))
}

func TestRateLimit_DeniedWrites429(t *testing.T) {
	rec, reached := serve(t, New(&stubLimiter{result: denied()}, discardLogger()))

	assert.False(t, reached)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))

	var body models.RateLimitExceededResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "rate_limited", body.Error)
	assert.Equal(t, MsgTooManyRequests, body.ErrorDescription)
	assert.Equal(t, 42, body.RetryAfter)
}

func TestRateLimit_Disabled(t *testing.T) {
	primary := &stubLimiter{result: denied()}
	_, reached := serve(t, New(primary, discardLogger(), WithDisabled(true)))

	assert.True(t, reached)
	assert.Zero(t, primary.calls)
}

func TestRateLimit_StoreErrorWithoutFallbackFailsOpen(t *testing.T) {
	rec, reached := serve(t, New(&stubLimiter{err: errors.New("redis down")}, discardLogger()))

	assert.True(t, reached)
	assert.Equal(t, "degraded", rec.Header().Get(HeaderStatus))
}

func TestRateLimit_StoreErrorUsesFallback(t *testing.T) {
	fallback := &stubLimiter{result: denied()}
	rec, reached := serve(t, New(&stubLimiter{err: errors.New("redis down")}, discardLogger(), WithFallback(fallback)))

	assert.False(t, reached)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "degraded", rec.Header().Get(HeaderStatus))
}

func TestRateLimit_RecoveringBreakerKeepsFallback(t *testing.T) {
	primary := &stubLimiter{err: errors.New("redis down")}
	fallback := &stubLimiter{result: allowed(1)}
	breaker := circuit.New("test", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(2))
	m := New(primary, discardLogger(), WithFallback(fallback), WithBreaker(breaker))

	serve(t, m)
	require.True(t, breaker.IsOpen())

	primary.err = nil
	primary.result = allowed(4)
	rec, _ := serve(t, m)
	assert.Equal(t, "degraded", rec.Header().Get(HeaderStatus), "one success does not close the breaker")
	assert.Equal(t, "1", rec.Header().Get(HeaderRemaining))

	rec, _ = serve(t, m)
	assert.False(t, breaker.IsOpen())
	assert.Empty(t, rec.Header().Get(HeaderStatus))
	assert.Equal(t, "4", rec.Header().Get(HeaderRemaining))
}

func TestRateLimit_BypassedOmitsHeaders(t *testing.T) {
	rec, reached := serve(t, New(&stubLimiter{result: &models.RateLimitResult{Allowed: true, Bypassed: true, Limit: 5}}, discardLogger()))

	assert.True(t, reached)
	assert.Empty(t, rec.Header().Get(HeaderLimit))
}
