// Package errors provides the classified errors used across the docset builder.
//
// Every error that leaves a package carries an ErrorCategory, which the CLI
// turns into an exit code, plus optional context such as the docset path:
//
//	return errors.ConfigError("invalid moniker_range glob").
//		WithContext("pattern", pattern).
//		WithCause(cause).
//		Build()
package errors
