package moniker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

func TestParse_Shapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"v1", "v1"},
		{"= v1", "= v1"},
		{">= 1.0", ">= 1.0"},
		{">= 1.0 < 2.0", "(>= 1.0 < 2.0)"},
		{">= 1.0 && < 2.0", "(>= 1.0 < 2.0)"},
		{">= 1.0 < 2.0 || 3.0", "((>= 1.0 < 2.0) || 3.0)"},
		{"a || b || c", "((a || b) || c)"},
		{"!a", "!a"},
		{"!(a || b) c", "(!(a || b) c)"},
		{"  netcore-1.0_preview  ", "netcore-1.0_preview"},
		{"(a)", "a"},
	}
	for _, tc := range cases {
		expr, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, expr.String(), tc.in)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := []struct {
		in     string
		reason string
		column int
	}{
		{"", "range is empty", 0},
		{"   ", "range is empty", 0},
		{"(a || b", "missing ')'", 1},
		{"a || b)", "unbalanced ')'", 7},
		{")", "unbalanced ')'", 1},
		{"a | b", "unknown operator '|'", 3},
		{"a & b", "unknown operator '&'", 3},
		{"a ~ b", "unexpected character '~'", 3},
		{">=", "expected moniker name after '>='", 3},
		{"> (a)", "expected moniker name after '>'", 3},
		{"a ||", "unexpected end of range", 5},
		{"=> a", "expected moniker name after '='", 2},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in)
		require.Error(t, err, tc.in)
		assert.True(t, errors.Is(err, ErrInvalidRangeSyntax), tc.in)
		assert.False(t, errors.Is(err, ErrUnknownMoniker), tc.in)

		var rerr *RangeError
		require.True(t, errors.As(err, &rerr))
		assert.Contains(t, rerr.Reason, tc.reason, tc.in)
		assert.Equal(t, tc.column, rerr.Column, tc.in)
		assert.Equal(t, tc.in, rerr.Range)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryMoniker), tc.in)
	}
}
