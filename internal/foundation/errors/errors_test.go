package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder_Defaults(t *testing.T) {
	err := NewError(CategoryBuild, "step failed").Build()

	assert.Equal(t, CategoryBuild, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, "[build] step failed", err.Error())
	assert.Nil(t, err.Cause())
}

func TestWrapError_UnwrapsToCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapError(cause, CategoryFileSystem, "write output").WithContext("path", "a.html").Build()

	require.ErrorIs(t, err, cause)
	path, ok := err.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "a.html", path)
	assert.Equal(t, "a.html", err.Path())
	assert.Equal(t, "[filesystem] a.html: write output: disk full", err.Error())
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := ConfigError("bad glob").Build()
	wrapped := fmt.Errorf("load docset: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.True(t, HasCategory(wrapped, CategoryConfig))
	assert.Equal(t, SeverityFatal, got.Severity())
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestClassifiedError_WithContextDoesNotMutateOriginal(t *testing.T) {
	base := MonikerError("unknown moniker").Build()
	derived := base.WithContext("range", ">= v9")

	_, ok := base.Context().Get("range")
	assert.False(t, ok)
	got, ok := derived.Context().GetString("range")
	require.True(t, ok)
	assert.Equal(t, ">= v9", got)
	assert.ErrorIs(t, derived, base)
}

func TestErrorBuilder_BuildSnapshotsContext(t *testing.T) {
	b := BuildError("render failed").WithPath("docs/a.md")
	first := b.Build()
	second := b.WithContext("path", "docs/b.md").Build()

	assert.Equal(t, "docs/a.md", first.Path())
	assert.Equal(t, "docs/b.md", second.Path())
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{stderrors.New("plain"), 1},
		{ValidationError("x").Build(), 2},
		{NotFoundError("x").Build(), 3},
		{StorageError("x").Build(), 12},
		{NewError(ErrorCategory("other"), "x").Build(), 1},
		{ConfigError("x").Build(), 7},
		{MonikerError("x").Build(), 9},
		{BuildError("x").Build(), 11},
		{CanceledError("x").Build(), 130},
		{InternalError("x").Build(), 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, a.ExitCodeFor(tc.err), "%v", tc.err)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	code := -1
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.out = &out
	a.exit = func(c int) { code = c }

	a.HandleError(InternalError("boom").Build())

	assert.Equal(t, 10, code)
	assert.Contains(t, out.String(), "use -v for details")
}
