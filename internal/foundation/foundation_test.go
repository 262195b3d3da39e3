package foundation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok[int, error](42)
	require.True(t, ok.IsOk())
	v, err := ok.Get()
	assert.Equal(t, 42, v)
	assert.NoError(t, err)

	boom := errors.New("boom")
	failed := Err[int](boom)
	require.False(t, failed.IsOk())
	_, err = failed.Get()
	assert.ErrorIs(t, err, boom)
}

type codeErr struct{ code int }

func (e *codeErr) Error() string { return "code" }

func TestResult_Of(t *testing.T) {
	assert.True(t, Of[string, *codeErr]("x", nil).IsOk())

	failed := Of("", &codeErr{code: 3})
	require.False(t, failed.IsOk())
	_, err := failed.Get()
	assert.Equal(t, 3, err.code)
}

func TestNormalizer(t *testing.T) {
	type kind string
	n := NewNormalizer(map[string]kind{"html": "html", "json": "json"}, "html")

	assert.Equal(t, kind("json"), n.Normalize("  JSON "))
	assert.Equal(t, kind("html"), n.Normalize("pdf"))

	_, ok := n.Lookup("pdf")
	assert.False(t, ok)
	assert.Equal(t, []string{"html", "json"}, n.Options())
}
