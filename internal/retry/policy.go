// Package retry computes backoff delays for transient failures, such as
// reaching the NATS server that receives preview notifications.
package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docsetbuild/internal/foundation"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// Mode selects how the delay grows between attempts.
type Mode string

const (
	Fixed       Mode = "fixed"
	Linear      Mode = "linear"
	Exponential Mode = "exponential"
)

var modes = foundation.NewNormalizer(map[string]Mode{
	"fixed":       Fixed,
	"linear":      Linear,
	"exponential": Exponential,
}, "")

// ParseMode maps a configured backoff name onto a Mode, or "" when unknown.
func ParseMode(raw string) Mode { return modes.Normalize(raw) }

// maxShift bounds the exponential doubling before it can overflow.
const maxShift = 30

// Policy is a value; copies are independent.
type Policy struct {
	Mode       Mode
	Initial    time.Duration // delay before the first retry
	Max        time.Duration // no delay exceeds this
	MaxRetries int           // retries after the first attempt
}

// DefaultPolicy backs off linearly from 500ms up to 5s and retries twice.
func DefaultPolicy() Policy {
	return Policy{Mode: Linear, Initial: 500 * time.Millisecond, Max: 5 * time.Second, MaxRetries: 2}
}

// NewPolicy overlays the non-zero arguments on DefaultPolicy. A negative
// retry count or an unknown mode keeps the default, and Initial never
// exceeds Max.
func NewPolicy(mode Mode, initial, maxDelay time.Duration, retries int) Policy {
	p := DefaultPolicy()
	if m := ParseMode(string(mode)); m != "" {
		p.Mode = m
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDelay > 0 {
		p.Max = maxDelay
	}
	if retries >= 0 {
		p.MaxRetries = retries
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// Delay is the wait before retry n (n starts at 1). It is zero for n <= 0.
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case Fixed:
		d = p.Initial
	case Exponential:
		if n > maxShift {
			return p.Max
		}
		d = p.Initial << (n - 1)
	default:
		d = p.Initial * time.Duration(n)
	}
	if d <= 0 || d > p.Max {
		return p.Max
	}
	return d
}

// Validate rejects policies that cannot wait or retry sensibly.
func (p Policy) Validate() error {
	switch {
	case p.Initial <= 0:
		return ferrors.ValidationError("retry initial delay must be positive").WithContext("initial", p.Initial).Build()
	case p.Max <= 0:
		return ferrors.ValidationError("retry max delay must be positive").WithContext("max", p.Max).Build()
	case p.MaxRetries < 0:
		return ferrors.ValidationError("retry count must not be negative").WithContext("retries", p.MaxRetries).Build()
	}
	return nil
}

// Do calls fn until it succeeds, the retries are spent or ctx ends. It
// returns the number of attempts made and the last error.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) (int, error) {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(attempt); err == nil {
			return attempt, nil
		}
		if attempt > p.MaxRetries {
			return attempt, err
		}
		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, err
		case <-timer.C:
		}
	}
}
