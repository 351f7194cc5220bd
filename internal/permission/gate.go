// Package permission implements the capability allow-list check described
// in spec §4.6: a colon-delimited key, matched against an allow-list that
// may carry trailing-"*" prefix entries.
package permission

import "strings"

// Set is an application's fixed, startup-time allow-list.
type Set struct {
	allow map[string]bool
	wild  []string // entries ending in "*", with the "*" stripped
}

// NewSet builds a Set from the manifest's permissions.allow list.
func NewSet(allow []string) *Set {
	s := &Set{allow: make(map[string]bool, len(allow))}
	for _, entry := range allow {
		if strings.HasSuffix(entry, "*") {
			s.wild = append(s.wild, strings.TrimSuffix(entry, "*"))
		} else {
			s.allow[entry] = true
		}
	}
	return s
}

// Allows reports whether the allow-list grants the required key.
//
// Matching rule: an allow-list entry matches a required key iff it equals
// that key, or it ends in "*" and the required key has the wildcard's
// prefix as a proper (non-empty-suffix) prefix — "p:*" matches "p:read"
// but not "p:" itself.
func (s *Set) Allows(required string) bool {
	if s.allow[required] {
		return true
	}
	for _, prefix := range s.wild {
		if strings.HasPrefix(required, prefix) && len(required) > len(prefix) {
			return true
		}
	}
	return false
}

// Check evaluates every required key and returns the first one not granted,
// or "" if all are granted.
func (s *Set) Check(required []string) (missing string, ok bool) {
	for _, key := range required {
		if !s.Allows(key) {
			return key, false
		}
	}
	return "", true
}
