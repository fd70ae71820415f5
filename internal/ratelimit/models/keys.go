package models

import "strings"

// KeyPrefix namespaces bucket keys by the kind of identifier they count.
type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// RateLimitKey identifies one sliding window bucket.
type RateLimitKey struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey{prefix: prefix, identifier: identifier, class: class}
}

// String renders the key as prefix:identifier:class with the identifier sanitized.
func (k RateLimitKey) String() string {
	return string(k.prefix) + ":" + SanitizeKeySegment(k.identifier) + ":" + string(k.class)
}

// SanitizeKeySegment escapes delimiter characters in key segments so an
// identifier containing ':' cannot address an adjacent bucket. IPv6
// addresses are affected, which is harmless since the mapping is one-way
// and consistent.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
