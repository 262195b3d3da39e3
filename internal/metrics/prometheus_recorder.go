package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docset"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	fileDuration    *prom.HistogramVec
	fileResults     *prom.CounterVec
	diagnostics     *prom.CounterVec
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	superseded      prom.Counter
	incrementalSkip prom.Counter
	rangeCache      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the docset metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		fileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "file_build_duration_seconds",
			Help:      "Duration of single file builds by content type",
			Buckets:   prom.DefBuckets,
		}, []string{"content_type"}),
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "file_results_total",
			Help:      "File build results by content type and final state",
		}, []string{"content_type", "state"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics raised by level",
		}, []string{"level"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total docset build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Docset build outcomes by final status",
		}, []string{"outcome"}),
		superseded: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_superseded_total",
			Help:      "File rebuilds abandoned for a newer edit of the same file",
		}),
		incrementalSkip: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "incremental_skips_total",
			Help:      "Files skipped because content and config were unchanged",
		}),
		rangeCache: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "range_cache_lookups_total",
			Help:      "Moniker range parse cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.fileDuration, pr.fileResults, pr.diagnostics, pr.buildDuration,
		pr.buildOutcome, pr.superseded, pr.incrementalSkip, pr.rangeCache)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// WriteTextfile writes all metrics in the Prometheus text format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}

func (p *PrometheusRecorder) ObserveFileBuild(contentType string, d time.Duration) {
	if p == nil || p.fileDuration == nil {
		return
	}
	p.fileDuration.WithLabelValues(contentType).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFileResult(contentType, state string) {
	if p == nil || p.fileResults == nil {
		return
	}
	p.fileResults.WithLabelValues(contentType, state).Inc()
}

func (p *PrometheusRecorder) IncDiagnostics(level string, n int) {
	if p == nil || p.diagnostics == nil || n <= 0 {
		return
	}
	p.diagnostics.WithLabelValues(level).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncSuperseded() {
	if p == nil || p.superseded == nil {
		return
	}
	p.superseded.Inc()
}

func (p *PrometheusRecorder) IncIncrementalSkip() {
	if p == nil || p.incrementalSkip == nil {
		return
	}
	p.incrementalSkip.Inc()
}

func (p *PrometheusRecorder) ObserveRangeCache(hit bool) {
	if p == nil || p.rangeCache == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.rangeCache.WithLabelValues(res).Inc()
}
