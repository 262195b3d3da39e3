package metrics

import "time"

// Recorder defines observability hooks for docset and per-file builds.
type Recorder interface {
	ObserveFileBuild(contentType string, d time.Duration)
	IncFileResult(contentType, state string)
	IncDiagnostics(level string, n int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // success|failed|canceled
	IncSuperseded()
	IncIncrementalSkip()
	// ObserveRangeCache counts moniker range parse cache lookups.
	ObserveRangeCache(hit bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFileBuild(string, time.Duration) {}
func (NoopRecorder) IncFileResult(string, string)           {}
func (NoopRecorder) IncDiagnostics(string, int)             {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)     {}
func (NoopRecorder) IncBuildOutcome(string)                 {}
func (NoopRecorder) IncSuperseded()                         {}
func (NoopRecorder) IncIncrementalSkip()                    {}
func (NoopRecorder) ObserveRangeCache(bool)                 {}
