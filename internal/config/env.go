package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCSET_"

// loadEnvFiles loads .env and .env.local from dir and the working directory.
// Variables already present in the process environment are not overwritten.
func loadEnvFiles(dir string) {
	seen := map[string]bool{}
	for _, base := range []string{dir, "."} {
		for _, name := range []string{".env", ".env.local"} {
			p := filepath.Clean(filepath.Join(base, name))
			if seen[p] {
				continue
			}
			seen[p] = true
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if err := godotenv.Load(p); err != nil {
				slog.Warn("Failed to load env file", slog.String("path", p), slog.String("error", err.Error()))
				continue
			}
			slog.Debug("Loaded environment variables", slog.String("path", p))
		}
	}
}

// envOverrides lists the settings that DOCSET_* variables may override.
type envOverrides struct {
	LogLevel    string `env:"LOG_LEVEL"`
	OutputPath  string `env:"OUTPUT_PATH"`
	OutputType  string `env:"OUTPUT_TYPE"`
	Workers     int    `env:"WORKERS"`
	Incremental *bool  `env:"INCREMENTAL"`
	HistoryDB   string `env:"HISTORY_DB"`
	NATSURL     string `env:"NATS_URL"`
	Metrics     *bool  `env:"METRICS"`
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse environment overrides").Fatal().Build()
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = LogLevel(o.LogLevel)
	}
	if o.OutputPath != "" {
		cfg.Output.Path = o.OutputPath
	}
	if o.OutputType != "" {
		cfg.Output.Type = OutputType(o.OutputType)
	}
	if o.Workers > 0 {
		cfg.Build.Workers = o.Workers
	}
	if o.Incremental != nil {
		cfg.Build.Incremental = *o.Incremental
	}
	if o.HistoryDB != "" {
		cfg.Build.HistoryDB = o.HistoryDB
	}
	if o.NATSURL != "" {
		cfg.Notify.NATSURL = o.NATSURL
	}
	if o.Metrics != nil {
		cfg.Metrics.Enabled = *o.Metrics
	}
	return nil
}
