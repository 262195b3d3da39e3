package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	b, err := Split(input)
	require.NoError(t, err)
	require.False(t, b.Had)
	require.Empty(t, b.Raw)
	require.Equal(t, input, b.Body)
	require.Equal(t, 1, b.BodyLine)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nkey: value\nother: 2\n---\n# Title\n")

	b, err := Split(input)
	require.NoError(t, err)
	require.True(t, b.Had)
	require.Equal(t, []byte("key: value\nother: 2\n"), b.Raw)
	require.Equal(t, []byte("# Title\n"), b.Body)
	require.Equal(t, 5, b.BodyLine)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	b, err := Split([]byte("---\nkey: value\n---"))
	require.NoError(t, err)
	require.True(t, b.Had)
	require.Equal(t, []byte("key: value\n"), b.Raw)
	require.Empty(t, b.Body)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	b, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, b.Had)
	require.Equal(t, []byte("key: value\r\n"), b.Raw)
	require.Equal(t, []byte("# Title\r\n"), b.Body)
	require.Equal(t, 4, b.BodyLine)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	b, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, b.Had)
	require.Empty(t, b.Raw)
	require.Equal(t, []byte("# Title\n"), b.Body)
	require.Equal(t, 3, b.BodyLine)
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: Hello\nmonikerRange: '>= v2'\n"))
	require.NoError(t, err)
	title, ok := String(fields, "title")
	require.True(t, ok)
	require.Equal(t, "Hello", title)
	r, _ := String(fields, "monikerRange")
	require.Equal(t, ">= v2", r)

	fields, err = ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)

	_, err = ParseYAML([]byte("title: [unclosed\n"))
	require.Error(t, err)

	_, ok = String(map[string]any{"n": 3}, "n")
	require.False(t, ok)
}
