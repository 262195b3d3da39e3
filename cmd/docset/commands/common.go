package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsetbuild/internal/build"
	"git.home.luguber.info/inful/docsetbuild/internal/config"
)

// Global is shared state passed to every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stdin  io.Reader
}

// NewGlobal wires the process streams.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Stdout: os.Stdout, Stdin: os.Stdin}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Docset configuration file" default:"docset.yml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the docset, or selected files, into the output directory"`
	Preview  PreviewCmd  `cmd:"" help:"Rebuild one file from stdin or --content and print its diagnostics"`
	Monikers MonikersCmd `cmd:"" help:"Evaluate moniker ranges and inspect file monikers"`
	Toc      TocCmd      `cmd:"" help:"Print a table of contents as a tree"`
	Init     InitCmd     `cmd:"" help:"Write an example docset configuration"`
}

// logLevel backs the default handler; loadConfig may change it.
var logLevel slog.LevelVar

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	if c.Verbose {
		logLevel.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// loadConfig reads the docset config and applies its log level unless -v won.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if !c.Verbose {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel.Set(slog.LevelDebug)
		case config.LogLevelWarn:
			logLevel.Set(slog.LevelWarn)
		case config.LogLevelError:
			logLevel.Set(slog.LevelError)
		}
	}
	return cfg, nil
}

func (c *CLI) openSession(g *Global, opts ...build.Option) (*build.Session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return build.Open(cfg, append([]build.Option{build.WithLogger(g.Logger)}, opts...)...)
}

func closeSession(g *Global, s *build.Session) {
	if err := s.Close(); err != nil {
		g.Logger.Warn("Failed to close build session", "error", err)
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
