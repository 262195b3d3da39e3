package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveFileBuild("Page", 150*time.Millisecond)
	pr.IncFileResult("Page", "Built")
	pr.IncFileResult("Page", "Built")
	pr.IncDiagnostics("Warning", 3)
	pr.IncDiagnostics("Error", 0)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome("success")
	pr.IncSuperseded()
	pr.IncIncrementalSkip()
	pr.ObserveRangeCache(true)
	pr.ObserveRangeCache(false)
	pr.ObserveRangeCache(true)

	if got := testutil.ToFloat64(pr.fileResults.WithLabelValues("Page", "Built")); got != 2 {
		t.Fatalf("file results = %v, want 2", got)
	}
	if got := testutil.ToFloat64(pr.diagnostics.WithLabelValues("Warning")); got != 3 {
		t.Fatalf("warnings = %v, want 3", got)
	}
	if got := testutil.ToFloat64(pr.rangeCache.WithLabelValues("hit")); got != 2 {
		t.Fatalf("cache hits = %v, want 2", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome("failed")

	p := filepath.Join(t.TempDir(), "metrics.prom")
	if err := pr.WriteTextfile(p); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `docset_build_outcomes_total{outcome="failed"} 1`) {
		t.Fatalf("textfile missing outcome counter:\n%s", data)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncSuperseded()
	pr.ObserveRangeCache(true)

	var r Recorder = NoopRecorder{}
	r.IncFileResult("Page", "Failed")
}
