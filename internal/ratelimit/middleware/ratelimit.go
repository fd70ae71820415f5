// Package middleware enforces per-IP rate limits on HTTP routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"lifepath/internal/ratelimit/metrics"
	"lifepath/internal/ratelimit/models"
	"lifepath/pkg/platform/circuit"
	"lifepath/pkg/platform/httputil"
	"lifepath/pkg/platform/middleware/metadata"
	"lifepath/pkg/requestcontext"
)

const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
	HeaderStatus    = "X-RateLimit-Status"

	// MsgTooManyRequests is shown to clients that exceed their window.
	MsgTooManyRequests = "请求过于频繁，请稍后再试。"
)

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	fallback RateLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for local development).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback sets the limiter used while the primary store is failing.
func WithFallback(fallback RateLimiter) Option {
	return func(m *Middleware) {
		m.fallback = fallback
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		if b != nil {
			m.breaker = b
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
		breaker: circuit.New("ratelimit-store"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits requests per client IP for class. Store failures switch
// to the fallback limiter and mark responses degraded; with no fallback the
// request is let through.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			if ip == "" {
				ip = "unknown"
			}

			result, degraded := m.check(ctx, ip, class)
			if degraded {
				w.Header().Set(HeaderStatus, "degraded")
			}
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// check consults the primary limiter through the breaker. A nil result means
// no limiter could answer.
func (m *Middleware) check(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, bool) {
	result, err := m.limiter.CheckIP(ctx, ip, class)
	if err != nil {
		_, change := m.breaker.RecordFailure()
		m.logger.ErrorContext(ctx, "failed to check IP rate limit",
			"request_id", requestcontext.RequestID(ctx),
			"ip_prefix", metadata.Anonymize(ip),
			"error", err,
		)
		if change.Opened {
			m.logger.ErrorContext(ctx, "rate limit circuit opened, using in-memory fallback",
				"breaker", m.breaker.Name(),
			)
			m.metrics.SetDegraded(true)
		}
		return m.checkFallback(ctx, ip, class), true
	}

	usePrimary, change := m.breaker.RecordSuccess()
	if change.Closed {
		m.logger.InfoContext(ctx, "rate limit circuit closed",
			"breaker", m.breaker.Name(),
		)
		m.metrics.SetDegraded(false)
	}
	if !usePrimary {
		if fb := m.checkFallback(ctx, ip, class); fb != nil {
			return fb, true
		}
	}
	return result, false
}

func (m *Middleware) checkFallback(ctx context.Context, ip string, class models.EndpointClass) *models.RateLimitResult {
	if m.fallback == nil {
		return nil
	}
	m.metrics.RecordFallback()
	result, err := m.fallback.CheckIP(ctx, ip, class)
	if err != nil {
		m.logger.ErrorContext(ctx, "fallback rate limiter failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil
	}
	return result
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil || result.Bypassed {
		return
	}
	w.Header().Set(HeaderLimit, strconv.Itoa(result.Limit))
	w.Header().Set(HeaderRemaining, strconv.Itoa(result.Remaining))
	w.Header().Set(HeaderReset, strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:            "rate_limited",
		ErrorDescription: MsgTooManyRequests,
		RetryAfter:       result.RetryAfter,
	})
}
