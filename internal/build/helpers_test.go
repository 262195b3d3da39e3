package build

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	"git.home.luguber.info/inful/docsetbuild/internal/markdown"
	"git.home.luguber.info/inful/docsetbuild/internal/moniker"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

func contextWithCancel(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithCancel(t.Context())
}

const landingSchema = `
#Schema: {
	title!:   string
	summary?: string
	...
}
#Markdown: ["summary"]
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for p, body := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	}
	return root
}

// baseConfig declares v1 < v2 < v3. Everything under docs/ is versioned,
// docs/legacy stops before v3 and other paths are unversioned.
func baseConfig() *config.Config {
	return &config.Config{
		Name:     "handbook",
		Monikers: []moniker.Moniker{{Name: "v1"}, {Name: "v2"}, {Name: "v3"}},
		MonikerRange: config.MonikerRanges{
			{Pattern: "docs/**", Range: ">= v1"},
			{Pattern: "docs/legacy/**", Range: "< v3"},
		},
	}
}

func openSession(t *testing.T, root string, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	require.NoError(t, config.Finalize(cfg, root))
	s, err := Open(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestSession(t *testing.T, files map[string]string, mutate func(*config.Config), opts ...Option) *Session {
	t.Helper()
	root := writeTree(t, files)
	cfg := baseConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return openSession(t, root, cfg, opts...)
}

// panickingEngine panics for one file and delegates everything else.
type panickingEngine struct {
	file string
}

func (p panickingEngine) ToHTML(content []byte, opts markdown.Options) (markdown.Result, error) {
	if opts.File == p.file {
		panic("renderer exploded")
	}
	return markdown.Default().ToHTML(content, opts)
}

// gatedEngine blocks its first conversion until release is closed.
type gatedEngine struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newGatedEngine() *gatedEngine {
	return &gatedEngine{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedEngine) ToHTML(content []byte, opts markdown.Options) (markdown.Result, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
		<-g.release
	}
	return markdown.Default().ToHTML(content, opts)
}
