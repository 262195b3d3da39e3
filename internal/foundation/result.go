// Package foundation holds small generic helpers shared by the docset packages.
package foundation

// Result stores the outcome of a computation so it can be cached and replayed,
// failures included. Ordinary code returns (T, error) instead.
type Result[T any, E error] struct {
	value T
	err   E
	ok    bool
}

func Ok[T any, E error](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

func Err[T any, E error](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// Of builds a Result from a (value, error) pair. A nil err yields Ok.
func Of[T any, E interface {
	comparable
	error
}](value T, err E) Result[T, E] {
	var zero E
	if err == zero {
		return Ok[T, E](value)
	}
	return Err[T](err)
}

func (r Result[T, E]) IsOk() bool { return r.ok }

// Get returns the stored value, or the zero T and the stored error.
func (r Result[T, E]) Get() (T, E) {
	if r.ok {
		var zeroErr E
		return r.value, zeroErr
	}
	var zeroVal T
	return zeroVal, r.err
}
