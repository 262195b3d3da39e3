package errors

import (
	stderrors "errors"
	"maps"
)

// pathKeys are the context keys that name the docset file an error is about.
var pathKeys = []string{"path", "file"}

// ClassifiedError is an error with a category, a severity and structured
// context. Values are immutable once built.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// Error renders "[category] path: message: cause", omitting absent parts.
func (e *ClassifiedError) Error() string {
	s := "[" + string(e.category) + "] "
	if p := e.Path(); p != "" {
		s += p + ": "
	}
	s += e.message
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }

// Message returns the message without category, path or cause.
func (e *ClassifiedError) Message() string { return e.message }

func (e *ClassifiedError) Cause() error { return e.cause }

func (e *ClassifiedError) Context() ErrorContext { return e.context }

// Path returns the docset path recorded in the context, if any.
func (e *ClassifiedError) Path() string {
	for _, k := range pathKeys {
		if p, ok := e.context.GetString(k); ok && p != "" {
			return p
		}
	}
	return ""
}

// WithContext returns a copy of e with key set; e is left unchanged.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	next := make(ErrorContext, len(e.context)+1)
	maps.Copy(next, e.context)
	next[key] = value
	cp := *e
	cp.context = next
	return &cp
}

// Is matches another ClassifiedError with the same category and message, so
// sentinel values built with the constructors below work with errors.Is.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether the first ClassifiedError in err's chain has
// the given category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.category
	}
	return CategoryInternal
}
