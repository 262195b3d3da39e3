package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, Linear, p.Mode)
	assert.Equal(t, 500*time.Millisecond, p.Initial)
	assert.Equal(t, 5*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

// initial > max is clamped.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(Fixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, Fixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)
}

func TestUnknownModeFallsBack(t *testing.T) {
	p := NewPolicy("bogus", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		mode Mode
		want []time.Duration
	}{
		{Fixed, []time.Duration{100 * ms, 100 * ms, 100 * ms, 100 * ms}},
		{Linear, []time.Duration{100 * ms, 200 * ms, 300 * ms, 350 * ms}},
		{Exponential, []time.Duration{100 * ms, 200 * ms, 350 * ms, 350 * ms}},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			p := NewPolicy(tc.mode, 100*ms, 350*ms, 3)
			assert.Zero(t, p.Delay(0))
			for i, want := range tc.want {
				assert.Equal(t, want, p.Delay(i+1), "retry %d", i+1)
			}
		})
	}
	assert.Equal(t, 350*ms, NewPolicy(Exponential, 100*ms, 350*ms, 3).Delay(64))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, Exponential, ParseMode(" EXPONENTIAL "))
	assert.Equal(t, Fixed, ParseMode("Fixed"))
	assert.Equal(t, Mode(""), ParseMode("random"))
	assert.Equal(t, Exponential, NewPolicy("Exponential", 0, 0, -1).Mode)
}

func TestValidate(t *testing.T) {
	err := Policy{Initial: 0, Max: time.Second}.Validate()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDo(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 2)
	boom := errors.New("boom")

	t.Run("succeeds after retries", func(t *testing.T) {
		attempts, err := p.Do(t.Context(), func(attempt int) error {
			if attempt < 3 {
				return boom
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		attempts, err := p.Do(t.Context(), func(int) error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		slow := NewPolicy(Fixed, time.Hour, time.Hour, 5)
		attempts, err := slow.Do(ctx, func(int) error { return boom })
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, attempts)
	})
}
