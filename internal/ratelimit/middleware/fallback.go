package middleware

import (
	"log/slog"

	"lifepath/internal/ratelimit/config"
	"lifepath/internal/ratelimit/service/requestlimit"
	"lifepath/internal/ratelimit/store/bucket"
)

// NewFallbackLimiter builds an in-memory limiter with the same limits as the
// primary. It counts per instance only, so limits loosen by the replica
// count while degraded. Returns nil on misconfiguration.
func NewFallbackLimiter(cfg *config.Config, allowlistStore requestlimit.AllowlistStore, logger *slog.Logger) RateLimiter {
	if cfg == nil || allowlistStore == nil {
		if logger != nil {
			logger.Error("fallback limiter requires config and allowlist store")
		}
		return nil
	}
	requests, err := requestlimit.New(
		bucket.NewInMemoryBucketStore(),
		allowlistStore,
		requestlimit.WithLogger(logger),
		requestlimit.WithConfig(cfg),
	)
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialize fallback rate limiter", "error", err)
		}
		return nil
	}
	return requests
}
