package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID      = "build_id"
	KeyDocset       = "docset"
	KeyFile         = "file"
	KeyPath         = "path"
	KeyContentType  = "content_type"
	KeyState        = "state"
	KeyMonikerRange = "moniker_range"
	KeyMonikers     = "monikers"
	KeyDiagnostics  = "diagnostics"
	KeyWorker       = "worker"
	KeyStage        = "stage"
	KeyDurationMS   = "duration_ms"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Docset(name string) slog.Attr      { return slog.String(KeyDocset, name) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func ContentType(t string) slog.Attr    { return slog.String(KeyContentType, t) }
func State(s string) slog.Attr          { return slog.String(KeyState, s) }
func MonikerRange(r string) slog.Attr   { return slog.String(KeyMonikerRange, r) }
func Monikers(m []string) slog.Attr     { return slog.Any(KeyMonikers, m) }
func Diagnostics(n int) slog.Attr       { return slog.Int(KeyDiagnostics, n) }
func Worker(w string) slog.Attr         { return slog.String(KeyWorker, w) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
