// Package sentinel holds infrastructure errors. Stores, caches and adapters
// return them, optionally wrapped, and services translate them into domain
// errors. Input problems use pkg/domain-errors directly.
package sentinel

import "errors"

var (
	// ErrNotFound means the record or cache entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means a backing service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
