package incremental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/history"
)

func TestFingerprint_IgnoresFingerprintField(t *testing.T) {
	plain := []byte("---\ntitle: A\n---\n# Body\n")
	stamped := []byte("---\ntitle: A\nfingerprint: abc123\n---\n# Body\n")

	assert.Equal(t, Fingerprint(plain), Fingerprint(stamped))
	assert.NotEqual(t, Fingerprint(plain), Fingerprint([]byte("---\ntitle: B\n---\n# Body\n")))
	assert.NotEqual(t, Fingerprint(plain), Fingerprint([]byte("---\ntitle: A\n---\n# Other\n")))
}

func TestFingerprint_LineEndingsInFrontMatter(t *testing.T) {
	lf := []byte("---\ntitle: A\n---\nbody")
	crlf := []byte("---\r\ntitle: A\r\n---\r\nbody")
	assert.Equal(t, Fingerprint(lf), Fingerprint(crlf))
}

func TestFingerprint_NoFrontMatter(t *testing.T) {
	a := Fingerprint([]byte("items: []\n"))
	assert.NotEmpty(t, a)
	assert.Equal(t, a, Fingerprint([]byte("items: []\n")))
	assert.NotEqual(t, a, Fingerprint([]byte("items: [1]\n")))
}

func TestSignature_OrderIndependent(t *testing.T) {
	a := Signature("snap", map[string]string{"a.md": "1", "b.md": "2"})
	b := Signature("snap", map[string]string{"b.md": "2", "a.md": "1"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Signature("other", map[string]string{"a.md": "1", "b.md": "2"}))
	assert.NotEqual(t, a, Signature("snap", map[string]string{"a.md": "1", "b.md": "3"}))
}

func TestPlanner_Check(t *testing.T) {
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := t.Context()

	content := []byte("# Hello\n")
	planner := NewPlanner(store, "snap-1")

	d, err := planner.Check(ctx, "a.md", content)
	require.NoError(t, err)
	assert.False(t, d.Skip)
	assert.Equal(t, ReasonNew, d.Reason)

	warn := diagnostics.New(diagnostics.CodeInvalidZone, diagnostics.LevelWarning, diagnostics.At("a.md", 1, 1), "x")
	require.NoError(t, planner.Record(ctx, "a.md", "b1", d.Fingerprint, StateBuilt, []diagnostics.Diagnostic{warn}))

	d, err = planner.Check(ctx, "a.md", content)
	require.NoError(t, err)
	assert.True(t, d.Skip)
	assert.Equal(t, ReasonUnchanged, d.Reason)
	require.Len(t, d.Diagnostics, 1)
	assert.Equal(t, diagnostics.CodeInvalidZone, d.Diagnostics[0].Code)

	d, err = planner.Check(ctx, "a.md", []byte("# Changed\n"))
	require.NoError(t, err)
	assert.False(t, d.Skip)
	assert.Equal(t, ReasonContentChanged, d.Reason)

	d, err = NewPlanner(store, "snap-2").Check(ctx, "a.md", content)
	require.NoError(t, err)
	assert.False(t, d.Skip)
	assert.Equal(t, ReasonConfigChanged, d.Reason)

	require.NoError(t, planner.Record(ctx, "a.md", "b2", Fingerprint(content), "Failed", nil))
	d, err = planner.Check(ctx, "a.md", content)
	require.NoError(t, err)
	assert.False(t, d.Skip)
	assert.Equal(t, ReasonPreviouslyFailed, d.Reason)
}

func TestPlanner_Forget(t *testing.T) {
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := t.Context()

	planner := NewPlanner(store, "snap")
	for _, p := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, planner.Record(ctx, p, "b1", "fp", StateBuilt, nil))
	}

	removed, err := planner.Forget(ctx, map[string]bool{"a.md": true, "c.md": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.md"}, removed)

	files, err := store.Files(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestSummarize(t *testing.T) {
	full := Summarize(map[string]Reason{"a.md": ReasonNew, "b.md": ReasonConfigChanged})
	assert.Equal(t, DecisionFull, full.Decision)
	assert.Equal(t, 2, full.Rebuilt)

	partial := Summarize(map[string]Reason{"a.md": ReasonUnchanged, "b.md": ReasonContentChanged})
	assert.Equal(t, DecisionPartial, partial.Decision)
	assert.Equal(t, []string{"b.md"}, partial.Changed)
	assert.Equal(t, map[Reason]int{ReasonUnchanged: 1, ReasonContentChanged: 1}, partial.Counts)

	assert.Equal(t, DecisionFull, Summarize(nil).Decision)
}
