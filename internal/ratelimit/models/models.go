package models

import (
	"time"

	dErrors "lifepath/pkg/domain-errors"
)

// EndpointClass groups endpoints that share a per-IP limit.
type EndpointClass string

const (
	// ClassGenerate covers model-backed endpoints (default 5 req/min).
	ClassGenerate EndpointClass = "generate"
	// ClassRead covers calculation and stored-report reads (default 60 req/min).
	ClassRead EndpointClass = "read"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassGenerate, ClassRead:
		return true
	}
	return false
}

// ParseEndpointClass validates s as an endpoint class.
func ParseEndpointClass(s string) (EndpointClass, error) {
	c := EndpointClass(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "endpoint class must be 'generate' or 'read'")
	}
	return c, nil
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Bypassed   bool      `json:"bypassed,omitempty"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}
