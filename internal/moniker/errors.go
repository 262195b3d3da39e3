package moniker

import (
	"errors"
	"fmt"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// Sentinels matched by RangeError.Is.
var (
	ErrInvalidRangeSyntax = errors.New("invalid moniker range syntax")
	ErrUnknownMoniker     = errors.New("unknown moniker")
)

// ErrorKind distinguishes syntax errors from semantic errors.
type ErrorKind string

const (
	KindInvalidRangeSyntax ErrorKind = "InvalidRangeSyntax"
	KindUnknownMoniker     ErrorKind = "UnknownMoniker"
)

// RangeError is returned by parsing and evaluation. Callers turn it into a
// diagnostic on the file being processed.
type RangeError struct {
	Kind    ErrorKind
	Range   string
	Column  int    // 1-based; zero when not applicable
	Moniker string // the unknown name, for KindUnknownMoniker
	Reason  string
}

func (e *RangeError) Error() string {
	msg := "invalid moniker range"
	if e.Range != "" {
		msg += fmt.Sprintf(" '%s'", e.Range)
	}
	msg += ": " + e.Reason
	if e.Column > 0 {
		msg += fmt.Sprintf(" at column %d", e.Column)
	}
	return msg
}

// Is matches ErrInvalidRangeSyntax or ErrUnknownMoniker by kind.
func (e *RangeError) Is(target error) bool {
	switch target {
	case ErrInvalidRangeSyntax:
		return e.Kind == KindInvalidRangeSyntax
	case ErrUnknownMoniker:
		return e.Kind == KindUnknownMoniker
	}
	return false
}

// Unwrap exposes the moniker-category classification.
func (e *RangeError) Unwrap() error {
	return ferrors.MonikerError(e.Reason).
		WithContext("range", e.Range).
		WithContext("kind", string(e.Kind)).
		Build()
}

// Diagnostic converts the error into an error-level diagnostic located at src.
func (e *RangeError) Diagnostic(src diagnostics.Source) diagnostics.Diagnostic {
	code := diagnostics.CodeInvalidRangeSyntax
	if e.Kind == KindUnknownMoniker {
		code = diagnostics.CodeUnknownMoniker
	}
	return diagnostics.New(code, diagnostics.LevelError, src, "%s", e.Error())
}

// DiagnosticFor converts any parse or evaluation error into a diagnostic.
func DiagnosticFor(err error, rangeString string, src diagnostics.Source) diagnostics.Diagnostic {
	var rerr *RangeError
	if errors.As(err, &rerr) {
		return rerr.Diagnostic(src)
	}
	return diagnostics.New(diagnostics.CodeInvalidRangeSyntax, diagnostics.LevelError, src,
		"invalid moniker range '%s': %v", rangeString, err)
}

func syntaxError(rangeString string, column int, format string, args ...any) *RangeError {
	return &RangeError{
		Kind:   KindInvalidRangeSyntax,
		Range:  rangeString,
		Column: column,
		Reason: fmt.Sprintf(format, args...),
	}
}
