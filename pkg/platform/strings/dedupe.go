// Package strings holds small helpers for cleaning user-supplied lists.
package strings

import (
	"strings"
)

// Dedupe trims each value, drops empties and duplicates, and keeps the first
// occurrence order. With fold set, values are lowercased before comparison.
func Dedupe(values []string, fold bool) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if fold {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
