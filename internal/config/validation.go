package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/glob"
)

// ValidateConfig checks struct tags and the cross-field rules that tags cannot express.
func ValidateConfig(cfg *Config) error {
	v := validator.New()
	if err := v.RegisterValidation("glob", validateGlob); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "register glob validation").Build()
	}
	if err := v.Struct(cfg); err != nil {
		return ferrors.ConfigError("configuration validation failed").
			WithCause(formatValidationError(err)).Build()
	}
	if err := validateCustomRules(cfg); err != nil {
		return ferrors.ConfigError("configuration validation failed").WithCause(err).Build()
	}
	return nil
}

func validateGlob(fl validator.FieldLevel) bool {
	_, err := glob.Compile(fl.Field().String())
	return err == nil
}

func validateCustomRules(cfg *Config) error {
	if len(cfg.Monikers) > 0 && cfg.MonikerDefinition != "" {
		return fmt.Errorf("monikers and moniker_definition are mutually exclusive")
	}
	if len(cfg.MonikerRange) > 0 && len(cfg.Monikers) == 0 && cfg.MonikerDefinition == "" {
		return fmt.Errorf("moniker_range requires monikers or moniker_definition")
	}
	for i, r := range cfg.MonikerRange {
		if strings.TrimSpace(r.Range) == "" {
			return fmt.Errorf("moniker_range[%d] (%s): range is empty", i, r.Pattern)
		}
		if _, err := glob.Compile(r.Pattern); err != nil {
			return fmt.Errorf("moniker_range[%d]: %w", i, err)
		}
	}
	for src := range cfg.Redirections {
		if src == "" {
			return fmt.Errorf("redirections: empty source path")
		}
	}
	if cfg.Build.Incremental && cfg.Build.HistoryDB == "" {
		return fmt.Errorf("build.incremental requires build.history_db")
	}
	return nil
}

// formatValidationError turns validator output into one readable error.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "glob":
			messages = append(messages, fmt.Sprintf("%s is not a valid glob: %v", field, e.Value()))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a URL", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, e.Tag()))
		}
	}
	return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
}
