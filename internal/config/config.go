package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
	"git.home.luguber.info/inful/docsetbuild/internal/moniker"
)

// DefaultFileName is the config file looked up when --config is not given.
const DefaultFileName = "docset.yml"

// Config is the docset configuration (docset.yml).
type Config struct {
	Name              string            `yaml:"name" validate:"required"`
	Files             []string          `yaml:"files,omitempty" validate:"dive,glob"`
	Exclude           []string          `yaml:"exclude,omitempty" validate:"dive,glob"`
	Monikers          []moniker.Moniker `yaml:"monikers,omitempty" validate:"dive"`
	MonikerDefinition string            `yaml:"moniker_definition,omitempty"`
	MonikerRange      MonikerRanges     `yaml:"moniker_range,omitempty"`
	Redirections      map[string]string `yaml:"redirections,omitempty"`
	Output            OutputConfig      `yaml:"output"`
	Build             BuildConfig       `yaml:"build"`
	Notify            NotifyConfig      `yaml:"notify,omitempty"`
	Metrics           MetricsConfig     `yaml:"metrics,omitempty"`
	Logging           LoggingConfig     `yaml:"logging,omitempty"`
	Templates         string            `yaml:"templates,omitempty"`
	Schemas           string            `yaml:"schemas,omitempty"`

	// baseDir is the directory holding the config file; relative paths resolve against it.
	baseDir string
}

// OutputConfig controls where and how artifacts are written.
type OutputConfig struct {
	Path   string     `yaml:"path"`
	Type   OutputType `yaml:"type" validate:"oneof=html json"`
	DryRun bool       `yaml:"dry_run,omitempty"`
}

// BuildConfig controls the docset build.
type BuildConfig struct {
	Workers     int    `yaml:"workers" validate:"min=1,max=256"`
	Incremental bool   `yaml:"incremental,omitempty"`
	HistoryDB   string `yaml:"history_db,omitempty"`
}

// NotifyConfig enables rebuild notifications over NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty" validate:"omitempty,url"`
	Subject string `yaml:"subject,omitempty"`
	// Connect retries before notifications are disabled for the session.
	ConnectRetries int           `yaml:"connect_retries,omitempty" validate:"min=0,max=20"`
	RetryBackoff   string        `yaml:"retry_backoff,omitempty" validate:"omitempty,oneof=fixed linear exponential"`
	RetryInitial   time.Duration `yaml:"retry_initial,omitempty"`
	RetryMax       time.Duration `yaml:"retry_max,omitempty"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level LogLevel `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Load reads, expands, normalizes, defaults and validates a docset config.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithCause(err).WithContext("path", configPath).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		abs = filepath.Dir(configPath)
	}
	cfg.baseDir = abs

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes config YAML after ${VAR} expansion. Defaults and validation
// are not applied; see Load.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config").Fatal().Build()
	}
	return &cfg, nil
}

// Finalize normalizes, defaults and validates a config built in code.
func Finalize(cfg *Config, baseDir string) error {
	cfg.baseDir = baseDir
	return finalize(cfg)
}

func finalize(cfg *Config) error {
	res, err := NormalizeConfig(cfg)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "normalize config").Fatal().Build()
	}
	for _, w := range res.Warnings {
		slog.Warn("Config normalized", slog.String("detail", w))
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "apply defaults").Fatal().Build()
	}
	return ValidateConfig(cfg)
}

// BaseDir returns the directory relative paths are resolved against.
func (c *Config) BaseDir() string {
	if c.baseDir == "" {
		return "."
	}
	return c.baseDir
}

// Resolve makes p absolute relative to the config directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir(), p)
}

// LoadMonikerDefinition returns the inline monikers or the referenced
// definition file. A docset without monikers gets an empty universe.
func (c *Config) LoadMonikerDefinition() (*moniker.Definition, error) {
	if c.MonikerDefinition != "" {
		def, err := moniker.LoadDefinition(c.Resolve(c.MonikerDefinition))
		if err != nil {
			return nil, err
		}
		slog.Debug("Loaded moniker definition",
			logfields.Path(c.MonikerDefinition), slog.Int("count", def.Len()))
		return def, nil
	}
	return moniker.NewDefinition(c.Monikers)
}

// RuleSpecs returns moniker_range entries in declaration order.
func (c *Config) RuleSpecs() []moniker.RuleSpec {
	specs := make([]moniker.RuleSpec, len(c.MonikerRange))
	for i, r := range c.MonikerRange {
		specs[i] = moniker.RuleSpec{Pattern: r.Pattern, Range: r.Range}
	}
	return specs
}

// Init writes an example docset config.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Config{
		Name:    "docs",
		Files:   []string{"**/*.md", "**/*.yml", "**/toc.yml", "media/**"},
		Exclude: []string{"_site/**", "**/includes/**"},
		Monikers: []moniker.Moniker{
			{Name: "v1.0", Product: "product"},
			{Name: "v2.0", Product: "product"},
			{Name: "v3.0", Product: "product", IsDefault: true},
		},
		MonikerRange: MonikerRanges{
			{Pattern: "**", Range: ">= v1.0"},
			{Pattern: "docs/legacy/**", Range: "< v3.0"},
		},
		Redirections: map[string]string{"old/index.md": "/docs/"},
		Output:       OutputConfig{Path: "_site", Type: OutputHTML},
		Build:        BuildConfig{Workers: 4, Incremental: true, HistoryDB: ".docset/history.db"},
		Notify:       NotifyConfig{NATSURL: "${DOCSET_NATS_URL}"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
