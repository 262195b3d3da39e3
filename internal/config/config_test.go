package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_PreservesMonikerRangeOrder(t *testing.T) {
	p := writeConfig(t, `
name: docs
monikers:
  - name: v1
  - name: v2
moniker_range:
  "docs/**": "v1"
  "docs/special/**": "v2"
  "api/**": ">= v1"
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	require.Len(t, cfg.MonikerRange, 3)
	assert.Equal(t, "docs/**", cfg.MonikerRange[0].Pattern)
	assert.Equal(t, "docs/special/**", cfg.MonikerRange[1].Pattern)
	assert.Equal(t, ">= v1", cfg.MonikerRange[2].Range)

	specs := cfg.RuleSpecs()
	assert.Equal(t, "docs/special/**", specs[1].Pattern)
}

func TestLoad_ListFormMonikerRange(t *testing.T) {
	p := writeConfig(t, `
name: docs
monikers: [{name: a}, {name: b}]
moniker_range:
  - pattern: "**"
    range: "a || b"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.Len(t, cfg.MonikerRange, 1)
	assert.Equal(t, "a || b", cfg.MonikerRange[0].Range)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	p := writeConfig(t, "name: docs\nbuild:\n  incremental: true\n")
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"**"}, cfg.Files)
	assert.Equal(t, "_site", cfg.Output.Path)
	assert.Equal(t, OutputHTML, cfg.Output.Type)
	assert.Contains(t, cfg.Exclude, "_site/**")
	assert.GreaterOrEqual(t, cfg.Build.Workers, 1)
	assert.Equal(t, ".docset/history.db", cfg.Build.HistoryDB)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, filepath.Join(filepath.Dir(p), "x.md"), cfg.Resolve("x.md"))
}

func TestLoad_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("DOCS_TITLE", "handbook")
	t.Setenv("DOCSET_WORKERS", "3")
	t.Setenv("DOCSET_OUTPUT_TYPE", "JSON")
	t.Setenv("DOCSET_NATS_URL", "nats://localhost:4222")

	p := writeConfig(t, "name: ${DOCS_TITLE}\n")
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "handbook", cfg.Name)
	assert.Equal(t, 3, cfg.Build.Workers)
	assert.Equal(t, OutputJSON, cfg.Output.Type)
	assert.Equal(t, "nats://localhost:4222", cfg.Notify.NATSURL)
	assert.Equal(t, "docset.handbook.preview.updated", cfg.Notify.Subject)
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	t.Setenv("DOCSET_TEST_NAME", "from-process")
	p := writeConfig(t, "name: ${DOCSET_TEST_NAME}\n")
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(p), ".env"),
		[]byte("DOCSET_TEST_NAME=from-file\n"), 0o600))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-process", cfg.Name)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"missing name":            "files: ['**']\n",
		"bad glob":                "name: d\nfiles: ['docs/[']\n",
		"ranges without monikers": "name: d\nmoniker_range:\n  '**': v1\n",
		"both moniker sources":    "name: d\nmonikers: [{name: a}]\nmoniker_definition: m.yml\n",
		"bad workers":             "name: d\nbuild:\n  workers: 1000\n",
		"bad nats url":            "name: d\nnotify:\n  nats_url: '::nope'\n",
		"scalar moniker_range":    "name: d\nmoniker_range: oops\n",
		"empty range":             "name: d\nmonikers: [{name: a}]\nmoniker_range:\n  '**': ''\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), err.Error())
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestNormalizeConfig_UnknownOutputTypeFallsBack(t *testing.T) {
	cfg := &Config{Name: "d", Output: OutputConfig{Type: "pdf"}, Logging: LoggingConfig{Level: "WARNING"}}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, OutputHTML, cfg.Output.Type)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Len(t, res.Warnings, 2)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "docs/a.md", NormalizePath("./docs//a.md"))
	assert.Equal(t, "docs/a.md", NormalizePath(`docs\a.md`))
	assert.Equal(t, "a.md", NormalizePath("/a.md"))
}

func TestLoadMonikerDefinition(t *testing.T) {
	p := writeConfig(t, "name: d\nmoniker_definition: monikers.yml\nmoniker_range:\n  '**': '> v1'\n")
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(p), "monikers.yml"),
		[]byte("monikers:\n  - name: v1\n  - name: v2\n"), 0o600))

	cfg, err := Load(p)
	require.NoError(t, err)
	def, err := cfg.LoadMonikerDefinition()
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, def.Names())
}

func TestInit_RoundTrips(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Init(p, false))
	require.Error(t, Init(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Name)
	require.Len(t, cfg.MonikerRange, 2)
	assert.Equal(t, "docs/legacy/**", cfg.MonikerRange[1].Pattern)
}
