package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Docset", KeyDocset, "docs", Docset("docs")},
		{"File", KeyFile, "a.md", File("a.md")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"ContentType", KeyContentType, "page", ContentType("page")},
		{"State", KeyState, "built", State("built")},
		{"MonikerRange", KeyMonikerRange, ">= v1", MonikerRange(">= v1")},
		{"Worker", KeyWorker, "worker-0", Worker("worker-0")},
		{"Stage", KeyStage, "markdown", Stage("markdown")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Diagnostics(3); a.Key != KeyDiagnostics || a.Value.Int64() != 3 {
		t.Fatalf("unexpected diagnostics attr: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}
