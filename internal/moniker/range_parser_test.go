package moniker

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	hits, misses atomic.Int64
}

func (c *countingObserver) ObserveRangeCache(hit bool) {
	if hit {
		c.hits.Add(1)
		return
	}
	c.misses.Add(1)
}

func TestRangeParser_MemoizesSuccessAndFailure(t *testing.T) {
	obs := &countingObserver{}
	p := NewRangeParser(mustDefinition(t, "1.0", "1.5", "2.0")).WithObserver(obs)

	got, err := p.Parse(">= 1.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.5", "2.0"}, got)

	got, err = p.Parse(">= 1.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.5", "2.0"}, got)

	_, err = p.Parse("(1.0")
	require.ErrorIs(t, err, ErrInvalidRangeSyntax)
	_, err = p.Parse("(1.0")
	require.ErrorIs(t, err, ErrInvalidRangeSyntax)

	assert.Equal(t, 2, p.CacheSize())
	assert.Equal(t, int64(2), obs.hits.Load())
	assert.Equal(t, int64(2), obs.misses.Load())
}

func TestRangeParser_UnknownMonikerReportsRawRange(t *testing.T) {
	p := NewRangeParser(mustDefinition(t, "v1"))

	_, err := p.Parse(">=   v9")
	require.Error(t, err)

	var rerr *RangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, KindUnknownMoniker, rerr.Kind)
	assert.Equal(t, ">=   v9", rerr.Range)
}

func TestRangeParser_ConcurrentUse(t *testing.T) {
	p := NewRangeParser(mustDefinition(t, propertyUniverse...))
	ranges := []string{"> a2", "a1 || c3", "!b1", ">= b1 < c2", "bogus", "((a1"}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, _ = p.Parse(ranges[i%len(ranges)])
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(ranges), p.CacheSize())
	got, err := p.Parse(">= b1 < c2")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "c1"}, got)
}
