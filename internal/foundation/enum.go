package foundation

import (
	"slices"
	"strings"
)

// Normalizer maps loosely written config values ("  JSON ", "Warning") onto a
// typed enum. Keys are compared trimmed and lowercased.
type Normalizer[T comparable] struct {
	values   map[string]T
	fallback T
}

// NewNormalizer creates a normalizer; fallback is returned for unknown input.
func NewNormalizer[T comparable](values map[string]T, fallback T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values)), fallback: fallback}
	for k, v := range values {
		n.values[fold(k)] = v
	}
	return n
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Lookup reports the enum value for raw and whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[fold(raw)]
	return v, ok
}

// Normalize returns the enum value for raw, or the fallback.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.Lookup(raw); ok {
		return v
	}
	return n.fallback
}

// Options lists the accepted spellings in sorted order, for error messages.
func (n *Normalizer[T]) Options() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
