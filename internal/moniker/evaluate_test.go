package moniker

import (
	"errors"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, def *Definition, rangeString string) []string {
	t.Helper()
	expr, err := Parse(rangeString)
	require.NoError(t, err, rangeString)
	got, err := Evaluate(expr, def)
	require.NoError(t, err, rangeString)
	return got
}

func TestEvaluate_UsesDeclaredOrder(t *testing.T) {
	def := mustDefinition(t, "1.0", "1.5", "2.0")
	assert.Equal(t, []string{"1.5", "2.0"}, eval(t, def, ">= 1.5"))

	// Declaration order, not lexical order: "10" sits before "9" here.
	def = mustDefinition(t, "v10", "v9", "v11")
	assert.Equal(t, []string{"v10"}, eval(t, def, "< v9"))
	assert.Equal(t, []string{"v11"}, eval(t, def, "> v9"))
}

func TestEvaluate_Examples(t *testing.T) {
	def := mustDefinition(t, "Sept2021", "Dec2021", "Mar2022", "Jun2022")

	cases := []struct {
		in   string
		want []string
	}{
		{"> Sept2021", []string{"Dec2021", "Mar2022", "Jun2022"}},
		{">= Dec2021 < Jun2022", []string{"Dec2021", "Mar2022"}},
		{"<= Sept2021 || Jun2022", []string{"Sept2021", "Jun2022"}},
		{"Jun2022 || Sept2021 || Jun2022", []string{"Sept2021", "Jun2022"}},
		{"!Mar2022", []string{"Sept2021", "Dec2021", "Jun2022"}},
		{"= dec2021", []string{"Dec2021"}},
		{"> Jun2022", []string{}},
		{"Sept2021 Dec2021", []string{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, eval(t, def, tc.in), tc.in)
	}
}

func TestEvaluate_ComparisonsStayWithinProduct(t *testing.T) {
	def, err := NewDefinition([]Moniker{
		{Name: "netcore-1.0", Product: "netcore"},
		{Name: "netfx-4.7", Product: "netfx"},
		{Name: "netcore-2.0", Product: "netcore"},
		{Name: "netfx-4.8", Product: "netfx"},
		{Name: "netcore-3.0", Product: "netcore"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"netcore-2.0", "netcore-3.0"}, eval(t, def, ">= netcore-2.0"))
	assert.Equal(t, []string{"netfx-4.7"}, eval(t, def, "< netfx-4.8"))
	assert.Equal(t, []string{"netcore-1.0", "netfx-4.8"}, eval(t, def, "< netcore-2.0 || > netfx-4.7"))
}

func TestEvaluate_UnknownMoniker(t *testing.T) {
	def := mustDefinition(t, "v1", "v2")
	for _, in := range []string{"v3", ">= v3", "v1 || !v3"} {
		expr, err := Parse(in)
		require.NoError(t, err)
		_, err = Evaluate(expr, def)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrUnknownMoniker), in)

		var rerr *RangeError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "v3", rerr.Moniker)
		assert.Empty(t, rerr.Range)
	}

	_, err := NewRangeParser(def).Parse("v1 ||  !v3")
	var rerr *RangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "v1 ||  !v3", rerr.Range)
	assert.Contains(t, err.Error(), "'v1 ||  !v3'")
}

var propertyUniverse = []string{"a1", "a2", "b1", "b2", "c1", "c2", "c3"}

func TestEvaluate_Properties(t *testing.T) {
	def := mustDefinition(t, propertyUniverse...)
	seedGen := gen.SliceOfN(16, gen.IntRange(0, 999))

	evalOK := func(e Expression) []string {
		got, err := Evaluate(e, def)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", e, err)
		}
		return got
	}

	properties := gopter.NewProperties(nil)

	properties.Property("result is a canonical-order subset of the universe and deterministic", prop.ForAll(
		func(seed []int) bool {
			e := buildExpr(seed, propertyUniverse)
			first := evalOK(e)
			last := -1
			for _, n := range first {
				i, ok := def.Lookup(n)
				if !ok || i <= last {
					return false
				}
				last = i
			}
			return slices.Equal(first, evalOK(e))
		},
		seedGen,
	))

	properties.Property("Not is the universe complement", prop.ForAll(
		func(seed []int) bool {
			e := buildExpr(seed, propertyUniverse)
			inner := evalOK(e)
			var want []string
			for _, n := range propertyUniverse {
				if !slices.Contains(inner, n) {
					want = append(want, n)
				}
			}
			return slices.Equal(def.Canonicalize(want), evalOK(Not{Child: e}))
		},
		seedGen,
	))

	properties.Property("And is intersection and Or is union", prop.ForAll(
		func(s1, s2 []int) bool {
			e1, e2 := buildExpr(s1, propertyUniverse), buildExpr(s2, propertyUniverse)
			r1, r2 := evalOK(e1), evalOK(e2)
			var union []string
			union = append(union, r1...)
			union = append(union, r2...)
			return slices.Equal(Intersect(r1, r2), evalOK(And{Left: e1, Right: e2})) &&
				slices.Equal(def.Canonicalize(union), evalOK(Or{Left: e1, Right: e2}))
		},
		seedGen, seedGen,
	))

	properties.Property("printing and reparsing preserves meaning", prop.ForAll(
		func(seed []int) bool {
			e := buildExpr(seed, propertyUniverse)
			reparsed, err := Parse(e.String())
			if err != nil {
				return false
			}
			return slices.Equal(evalOK(e), evalOK(reparsed))
		},
		seedGen,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
