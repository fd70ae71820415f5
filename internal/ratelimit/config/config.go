// Package config holds per-class rate limits.
package config

import (
	"time"

	"lifepath/internal/ratelimit/models"
)

// Limit is a sliding window allowance.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

type Config struct {
	IPLimits map[models.EndpointClass]Limit
}

// DefaultConfig allows 5 generations and 60 reads per IP per minute.
func DefaultConfig() *Config {
	return New(5, 60, time.Minute)
}

// New builds a Config from per-class request counts sharing one window.
func New(generateRequests, readRequests int, window time.Duration) *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]Limit{
			models.ClassGenerate: {RequestsPerWindow: generateRequests, Window: window},
			models.ClassRead:     {RequestsPerWindow: readRequests, Window: window},
		},
	}
}

// GetIPLimit returns the limit for class. ok is false when the class has no
// positive limit configured.
func (c *Config) GetIPLimit(class models.EndpointClass) (requestsPerWindow int, window time.Duration, ok bool) {
	l, found := c.IPLimits[class]
	if !found || l.RequestsPerWindow <= 0 || l.Window <= 0 {
		return 0, 0, false
	}
	return l.RequestsPerWindow, l.Window, true
}
