package config

import (
	"fmt"
	"runtime"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all domains in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier used by Load.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&ContentDefaultApplier{},
			&OutputDefaultApplier{},
			&BuildDefaultApplier{},
			&NotifyDefaultApplier{},
			&ObservabilityDefaultApplier{},
		},
	}
}

// ApplyDefaults runs every domain applier.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// ContentDefaultApplier defaults the file set.
type ContentDefaultApplier struct{}

func (ContentDefaultApplier) Domain() string { return "content" }

func (ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Files) == 0 {
		cfg.Files = []string{"**"}
	}
	return nil
}

// OutputDefaultApplier defaults output location and type.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Path == "" {
		cfg.Output.Path = "_site"
	}
	if cfg.Output.Type == "" {
		cfg.Output.Type = OutputHTML
	}
	// Never enumerate our own output as input.
	cfg.Exclude = appendUnique(cfg.Exclude, cfg.Output.Path+"/**")
	return nil
}

// BuildDefaultApplier defaults worker count and history location.
type BuildDefaultApplier struct{}

func (BuildDefaultApplier) Domain() string { return "build" }

func (BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Workers <= 0 {
		cfg.Build.Workers = min(runtime.NumCPU(), 8)
	}
	if cfg.Build.Incremental && cfg.Build.HistoryDB == "" {
		cfg.Build.HistoryDB = ".docset/history.db"
	}
	return nil
}

// NotifyDefaultApplier defaults the notification subject.
type NotifyDefaultApplier struct{}

func (NotifyDefaultApplier) Domain() string { return "notify" }

func (NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "docset." + cfg.Name + ".preview.updated"
	}
	return nil
}

// ObservabilityDefaultApplier defaults logging and metrics settings.
type ObservabilityDefaultApplier struct{}

func (ObservabilityDefaultApplier) Domain() string { return "observability" }

func (ObservabilityDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "metrics.prom"
	}
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
