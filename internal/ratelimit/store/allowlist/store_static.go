// Package allowlist holds the IPs and networks that bypass rate limiting.
package allowlist

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
)

// StaticStore is an immutable allowlist of addresses and CIDR prefixes,
// loaded from configuration at startup.
type StaticStore struct {
	prefixes []netip.Prefix
}

// NewStaticStore parses entries such as "203.0.113.7" or "10.0.0.0/8".
// Blank entries are ignored.
func NewStaticStore(entries []string) (*StaticStore, error) {
	s := &StaticStore{}
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("allowlist entry %q: %w", entry, err)
			}
			s.prefixes = append(s.prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("allowlist entry %q: %w", entry, err)
		}
		s.prefixes = append(s.prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return s, nil
}

// IsAllowlisted reports whether identifier is an IP inside any entry.
// Identifiers that are not IPs are never allowlisted.
func (s *StaticStore) IsAllowlisted(_ context.Context, identifier string) (bool, error) {
	addr, err := netip.ParseAddr(identifier)
	if err != nil {
		return false, nil
	}
	addr = addr.Unmap()
	for _, p := range s.prefixes {
		if p.Contains(addr) {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of entries.
func (s *StaticStore) Len() int {
	return len(s.prefixes)
}
