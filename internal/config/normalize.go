package config

import (
	"fmt"
	"path"
	"strings"
)

// NormalizationResult captures adjustments made by NormalizeConfig.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerations and path-like fields before defaults apply.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}

	c.Name = strings.TrimSpace(c.Name)

	if raw := strings.TrimSpace(string(c.Output.Type)); raw != "" {
		if t := NormalizeOutputType(raw); t == "" {
			res.Warnings = append(res.Warnings, warnUnknown("output.type", raw, string(OutputHTML), outputTypeNormalizer.Options()))
			c.Output.Type = OutputHTML
		} else if t != c.Output.Type {
			res.Warnings = append(res.Warnings, warnChanged("output.type", c.Output.Type, t))
			c.Output.Type = t
		}
	}

	if raw := strings.TrimSpace(string(c.Logging.Level)); raw != "" {
		if l := NormalizeLogLevel(raw); l == "" {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(LogLevelInfo), logLevelNormalizer.Options()))
			c.Logging.Level = LogLevelInfo
		} else if l != c.Logging.Level {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", c.Logging.Level, l))
			c.Logging.Level = l
		}
	}

	if c.Output.Path != "" {
		c.Output.Path = strings.TrimSuffix(path.Clean(strings.ReplaceAll(c.Output.Path, "\\", "/")), "/")
	}

	if len(c.Redirections) > 0 {
		norm := make(map[string]string, len(c.Redirections))
		for src, dst := range c.Redirections {
			norm[NormalizePath(src)] = strings.TrimSpace(dst)
		}
		c.Redirections = norm
	}
	return res, nil
}

// NormalizePath converts a docset-relative path to the slash form used as a file key.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return p
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string, options []string) string {
	return fmt.Sprintf("unknown %s '%s' (valid: %s), defaulting to %s", field, value, strings.Join(options, ", "), def)
}
