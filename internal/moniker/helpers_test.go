package moniker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDefinition(t *testing.T, names ...string) *Definition {
	t.Helper()
	ms := make([]Moniker, len(names))
	for i, n := range names {
		ms[i] = Moniker{Name: n}
	}
	def, err := NewDefinition(ms)
	require.NoError(t, err)
	return def
}

// buildExpr deterministically turns seed into an expression over names.
func buildExpr(seed []int, names []string) Expression {
	pos := 0
	nextInt := func() int {
		v := seed[pos%len(seed)]
		pos++
		return v
	}
	ops := []Operator{OpEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual}
	var build func(depth int) Expression
	build = func(depth int) Expression {
		kind := nextInt() % 5
		if depth >= 3 {
			kind %= 2
		}
		switch kind {
		case 0:
			return Literal{Name: names[nextInt()%len(names)]}
		case 1:
			return Comparison{Op: ops[nextInt()%len(ops)], Name: names[nextInt()%len(names)]}
		case 2:
			return And{Left: build(depth + 1), Right: build(depth + 1)}
		case 3:
			return Or{Left: build(depth + 1), Right: build(depth + 1)}
		default:
			return Not{Child: build(depth + 1)}
		}
	}
	return build(0)
}
