package report

import "errors"

// Generation failure kinds. Generators wrap their errors with one of these
// so the service can choose a user-facing response without knowing the vendor.
var (
	ErrGenerationTimeout = errors.New("generation timed out")
	ErrRateLimited       = errors.New("generation rate limited")
	ErrNetwork           = errors.New("generation network failure")
	ErrCredentials       = errors.New("generation credentials rejected")
	ErrEmptyResponse     = errors.New("generation returned no content")
)
