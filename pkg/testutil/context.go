package testutil

import (
	"net/http"

	"lifepath/pkg/requestcontext"
)

// WithRequestID sets the request ID the RequestID middleware would have set.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClient sets the client IP and User-Agent the ClientMetadata middleware
// would have extracted.
func WithClient(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}
