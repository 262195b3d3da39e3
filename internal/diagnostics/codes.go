package diagnostics

import "strings"

// Diagnostic codes.
const (
	CodeConfigError            = "config-error"
	CodeInvalidRangeSyntax     = "invalid-range-syntax"
	CodeUnknownMoniker         = "unknown-moniker"
	CodeMonikerConfigMissing   = "moniker-config-missing"
	CodeNoMonikersIntersection = "no-monikers-intersection"
	CodeMergeConflict          = "merge-conflict"
	CodeYAMLSyntaxError        = "yaml-syntax-error"
	CodeJSONSyntaxError        = "json-syntax-error"
	CodeUnexpectedType         = "unexpected-type"
	CodeSchemaViolation        = "schema-violation"
	CodeSchemaNotFound         = "schema-not-found"
	CodeMissingAttribute       = "missing-attribute"
	CodeRedirectionInvalid     = "redirection-invalid"
	CodeCustom404Page          = "custom-404-page"
	CodeFileNotFound           = "file-not-found"
	CodeTemplateError          = "template-error"
	CodeInvalidZone            = "invalid-zone"
	CodeInternalError          = "internal-error"
)

// MonikerConfigMissing reports a range declared in a file that has no file-level monikers.
func MonikerConfigMissing(src Source) Diagnostic {
	return New(CodeMonikerConfigMissing, LevelWarning, src,
		"Moniker range missing in docset config, a zone or metadata range cannot narrow an unversioned file")
}

// NoMonikersIntersection reports a zone range whose monikers are disjoint from the file's.
func NoMonikersIntersection(src Source, rangeString string, zone, file []string) Diagnostic {
	return New(CodeNoMonikersIntersection, LevelWarning, src,
		"No intersection between zone and file level monikers. The result of zone level range string `%s` is %s, while file level monikers is %s.",
		rangeString, strings.Join(zone, ","), strings.Join(file, ","))
}

// InvalidZone reports a moniker zone marker that does not pair up.
func InvalidZone(src Source, reason string) Diagnostic {
	return New(CodeInvalidZone, LevelWarning, src, "Invalid moniker zone: %s", reason)
}

// MergeConflict reports a git merge conflict marker left in content.
func MergeConflict(src Source) Diagnostic {
	return New(CodeMergeConflict, LevelError, src, "File contains merge conflict markers")
}

// FileNotFound reports content that could not be read.
func FileNotFound(src Source) Diagnostic {
	return New(CodeFileNotFound, LevelError, src, "Cannot find file '%s'", src.File)
}

// InternalError reports an unexpected failure inside a build step.
func InternalError(src Source, detail string) Diagnostic {
	return New(CodeInternalError, LevelError, src, "Internal error while building file: %s", detail)
}

// Custom404Page flags a customized 404 page.
func Custom404Page(src Source) Diagnostic {
	return New(CodeCustom404Page, LevelInfo, src,
		"Custom 404 page is not supported, it will be excluded from search indexing")
}
