// Package requestcontext carries request-scoped values through a context so
// services and the CLI can read them without importing net/http.
//
// Middleware sets them; tests pin them directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.7", "curl/8.0")
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	clientIPKey key = iota
	userAgentKey
	deviceClassKey
	requestIDKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

func str(ctx context.Context, k key) string {
	s, _ := value[string](ctx, k)
	return s
}

// ClientIP is the client address resolved by the metadata middleware.
func ClientIP(ctx context.Context) string { return str(ctx, clientIPKey) }

// UserAgent is the raw User-Agent header.
func UserAgent(ctx context.Context) string { return str(ctx, userAgentKey) }

// WithClientMetadata stores the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// DeviceClass is the class set by the device middleware, or "" when none ran.
func DeviceClass(ctx context.Context) string { return str(ctx, deviceClassKey) }

// WithDeviceClass stores the parsed device class.
func WithDeviceClass(ctx context.Context, class string) context.Context {
	return context.WithValue(ctx, deviceClassKey, class)
}

// RequestID returns the request ID, or "" outside a request.
func RequestID(ctx context.Context) string { return str(ctx, requestIDKey) }

// WithRequestID stores the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now returns the time pinned for this request, or time.Now() when none was set.
// The numerology reference year is derived from it, so pinning it pins ages.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
