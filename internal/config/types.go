package config

import "git.home.luguber.info/inful/docsetbuild/internal/foundation"

// OutputType selects the artifact format.
type OutputType string

const (
	OutputHTML OutputType = "html"
	OutputJSON OutputType = "json"
)

var outputTypeNormalizer = foundation.NewNormalizer(map[string]OutputType{
	"html": OutputHTML,
	"json": OutputJSON,
}, "")

// NormalizeOutputType returns the canonical output type, or "" when unknown.
func NormalizeOutputType(raw string) OutputType { return outputTypeNormalizer.Normalize(raw) }

// LogLevel is the configured slog level name.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = foundation.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, "")

// NormalizeLogLevel returns the canonical level, or "" when unknown.
func NormalizeLogLevel(raw string) LogLevel { return logLevelNormalizer.Normalize(raw) }
