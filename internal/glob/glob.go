// Package glob compiles docset path patterns into match predicates.
//
// Patterns use forward slashes regardless of platform. `*` matches within a
// single path segment, `**` matches across segments, and `{a,b}` selects
// alternatives.
package glob

import (
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// Matcher reports whether a docset-relative path matches a compiled pattern.
type Matcher func(path string) bool

// DefaultCaseInsensitive follows the path comparison rules of the host platform.
var DefaultCaseInsensitive = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

type options struct {
	caseInsensitive bool
}

// Option customizes pattern compilation.
type Option func(*options)

// WithCaseInsensitive overrides the platform default for case folding.
func WithCaseInsensitive(v bool) Option {
	return func(o *options) { o.caseInsensitive = v }
}

// Compile validates pattern and returns its match predicate.
// A malformed pattern fails with a config-category error.
func Compile(pattern string, opts ...Option) (Matcher, error) {
	o := options{caseInsensitive: DefaultCaseInsensitive}
	for _, opt := range opts {
		opt(&o)
	}

	normalized := strings.TrimPrefix(ToSlash(pattern), "./")
	if strings.TrimSpace(normalized) == "" {
		return nil, ferrors.ConfigError("glob pattern is empty").WithContext("pattern", pattern).Build()
	}
	if o.caseInsensitive {
		normalized = fold(normalized)
	}
	if !doublestar.ValidatePattern(normalized) {
		return nil, ferrors.ConfigError("malformed glob pattern").WithContext("pattern", pattern).Build()
	}

	return func(path string) bool {
		p := strings.TrimPrefix(ToSlash(path), "./")
		if o.caseInsensitive {
			p = fold(p)
		}
		// Pattern was validated above; Match only errors on bad patterns.
		ok, _ := doublestar.Match(normalized, p)
		return ok
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and constants.
func MustCompile(pattern string, opts ...Option) Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ToSlash converts any backslash separators to forward slashes.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
