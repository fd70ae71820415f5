// Package requestlimit enforces per-IP sliding window limits by endpoint class.
package requestlimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lifepath/internal/ratelimit/config"
	"lifepath/internal/ratelimit/metrics"
	"lifepath/internal/ratelimit/models"
	"lifepath/internal/ratelimit/ports"
	dErrors "lifepath/pkg/domain-errors"
	audit "lifepath/pkg/platform/audit"
	"lifepath/pkg/platform/middleware/metadata"
	"lifepath/pkg/requestcontext"
)

type (
	BucketStore    = ports.BucketStore
	AllowlistStore = ports.AllowlistStore
	AuditPublisher = ports.AuditPublisher
)

// retryUnconfigured is the Retry-After for classes with no limit configured.
const retryUnconfigured = 60

type Service struct {
	buckets        BucketStore
	allowlist      AllowlistStore
	auditPublisher AuditPublisher
	logger         *slog.Logger
	config         *config.Config
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, allowlist AllowlistStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}
	if allowlist == nil {
		return nil, errors.New("allowlist store is required")
	}

	svc := &Service{
		buckets:   buckets,
		allowlist: allowlist,
		config:    config.DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP consumes one request from ip's window for class. Allowlisted IPs
// bypass counting; a class without a configured limit is denied.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)
	subject := metadata.Anonymize(ip)

	requestsPerWindow, window, ok := s.config.GetIPLimit(class)
	if !ok {
		s.logger.ErrorContext(ctx, "no rate limit configured for endpoint class",
			"request_id", requestcontext.RequestID(ctx),
			"endpoint_class", string(class),
		)
		s.metrics.RecordCheck(string(class), "denied")
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    now.Add(retryUnconfigured * time.Second),
			RetryAfter: retryUnconfigured,
		}, nil
	}

	allowlisted, err := s.allowlist.IsAllowlisted(ctx, ip)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check allowlist")
	}
	if allowlisted {
		s.metrics.RecordCheck(string(class), "bypassed")
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventAllowlistBypassed,
			"identifier", subject,
			"endpoint_class", string(class),
		)
		return &models.RateLimitResult{
			Allowed:   true,
			Bypassed:  true,
			Limit:     requestsPerWindow,
			Remaining: requestsPerWindow,
			ResetAt:   now.Add(window),
		}, nil
	}

	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key.String(), requestsPerWindow, window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		s.metrics.RecordCheck(string(class), "denied")
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventRateLimitExceeded,
			"identifier", subject,
			"endpoint_class", string(class),
			"limit", requestsPerWindow,
			"window_seconds", int(window.Seconds()),
		)
		return result, nil
	}
	s.metrics.RecordCheck(string(class), "allowed")
	return result, nil
}
