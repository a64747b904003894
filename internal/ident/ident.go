// Package ident generates entity identifiers.
package ident

import (
	"github.com/google/uuid"
)

// Generator produces a fresh identifier on every call. Callers that need
// uniqueness within a scope retry until the id is unused.
type Generator func() string

// UUID returns a random RFC 4122 version 4 UUID in canonical form.
func UUID() string {
	return uuid.New().String()
}

// WithPrefix returns a generator yielding "<prefix>_<uuid>". An empty prefix
// yields plain UUIDs.
func WithPrefix(prefix string) Generator {
	if prefix == "" {
		return UUID
	}
	return func() string {
		return prefix + "_" + UUID()
	}
}

// Sequence returns a generator that yields ids from ids in order and then
// falls back to UUIDs. It is intended for deterministic tests.
func Sequence(ids ...string) Generator {
	i := 0
	return func() string {
		if i < len(ids) {
			id := ids[i]
			i++
			return id
		}
		return UUID()
	}
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
