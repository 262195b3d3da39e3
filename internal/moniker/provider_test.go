package moniker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/glob"
)

func newTestProvider(t *testing.T, def *Definition, specs ...RuleSpec) *Provider {
	t.Helper()
	p, err := NewProvider(NewRangeParser(def), specs, glob.WithCaseInsensitive(false))
	require.NoError(t, err)
	return p
}

func TestProvider_LastDeclaredRuleWins(t *testing.T) {
	def := mustDefinition(t, "v1", "v2")
	p := newTestProvider(t, def,
		RuleSpec{Pattern: "docs/**", Range: "v1"},
		RuleSpec{Pattern: "docs/special/**", Range: "v2"},
	)

	assert.Equal(t, []string{"v2"}, p.GetFileMonikers("docs/special/x.md"))
	assert.Equal(t, []string{"v1"}, p.GetFileMonikers("docs/a.md"))
	assert.Equal(t, []string{}, p.GetFileMonikers("other/a.md"))

	rules := p.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "docs/special/**", rules[0].Pattern)
}

func TestProvider_MatchingRulesAreNotMerged(t *testing.T) {
	def := mustDefinition(t, "v1", "v2", "v3")
	p := newTestProvider(t, def,
		RuleSpec{Pattern: "**/*.md", Range: "v1 || v2"},
		RuleSpec{Pattern: "docs/**", Range: "v3"},
	)
	assert.Equal(t, []string{"v3"}, p.GetFileMonikers("docs/a.md"))
	assert.Equal(t, []string{"v1", "v2"}, p.GetFileMonikers("blog/a.md"))
}

func TestProvider_InvalidConfigRangeIsFatal(t *testing.T) {
	def := mustDefinition(t, "v1")
	_, err := NewProvider(NewRangeParser(def), []RuleSpec{{Pattern: "**", Range: ">= v7"}})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.ErrorIs(t, err, ErrUnknownMoniker)

	_, err = NewProvider(NewRangeParser(def), []RuleSpec{{Pattern: "docs/[", Range: "v1"}})
	require.Error(t, err)
}

func TestProvider_GetZoneMonikers(t *testing.T) {
	def := mustDefinition(t, "Sept2021", "Dec2021", "Mar2022")
	p := newTestProvider(t, def)
	src := diagnostics.At("docs/a.md", 12, 1)

	got, diags := p.GetZoneMonikers(src, "> Sept2021", []string{"Dec2021"})
	assert.Equal(t, []string{"Dec2021"}, got)
	assert.Empty(t, diags)

	got, diags = p.GetZoneMonikers(src, "Sept2021", []string{"Dec2021", "Mar2022"})
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeNoMonikersIntersection, diags[0].Code)
	assert.Equal(t, diagnostics.LevelWarning, diags[0].Level)
	assert.Equal(t, 12, diags[0].Source.Line)

	got, diags = p.GetZoneMonikers(src, "Sept2021", nil)
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeMonikerConfigMissing, diags[0].Code)

	got, diags = p.GetZoneMonikers(src, ">= ", []string{"Dec2021"})
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeInvalidRangeSyntax, diags[0].Code)
	assert.Equal(t, diagnostics.LevelError, diags[0].Level)

	_, diags = p.GetZoneMonikers(src, "Jan2030", []string{"Dec2021"})
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeUnknownMoniker, diags[0].Code)
}

func TestProvider_GetZoneMonikers_FoldsFileLevelCase(t *testing.T) {
	def := mustDefinition(t, "Sept2021", "Dec2021")
	p := newTestProvider(t, def)

	got, diags := p.GetZoneMonikers(diagnostics.At("docs/a.md", 3, 1), "dec2021", []string{"dec2021"})
	assert.Empty(t, diags)
	assert.Equal(t, []string{"Dec2021"}, got)

	got, diags = p.GetZoneMonikers(diagnostics.At("docs/a.md", 3, 1), ">= sept2021", []string{"DEC2021", "Dec2021"})
	assert.Empty(t, diags)
	assert.Equal(t, []string{"Dec2021"}, got)
}

func TestProvider_ZoneResultIsSubsetOfFileLevel(t *testing.T) {
	def := mustDefinition(t, propertyUniverse...)
	p := newTestProvider(t, def)
	fileLevel := []string{"a2", "b1", "c3"}
	for _, r := range []string{"> a1", "!b1", "a1 || c3", ">= a1"} {
		got, _ := p.GetZoneMonikers(diagnostics.At("x.md", 1, 1), r, fileLevel)
		for _, m := range got {
			assert.Contains(t, fileLevel, m, r)
		}
	}
}
