package incremental

import "slices"

// Decision kinds of a Delta.
const (
	DecisionFull    = "full"
	DecisionPartial = "partial"
)

// Delta summarizes the planner reasons of one incremental build.
type Delta struct {
	// Decision is partial when at least one file was skipped.
	Decision string         `json:"decision"`
	Rebuilt  int            `json:"rebuilt"`
	Changed  []string       `json:"changed,omitempty"` // content changed, sorted
	Counts   map[Reason]int `json:"counts"`
}

// Summarize derives the Delta from per-file reasons.
func Summarize(reasons map[string]Reason) Delta {
	d := Delta{Decision: DecisionFull, Counts: make(map[Reason]int, len(reasons))}
	for p, r := range reasons {
		d.Counts[r]++
		switch r {
		case ReasonUnchanged:
			d.Decision = DecisionPartial
		case ReasonContentChanged:
			d.Changed = append(d.Changed, p)
			d.Rebuilt++
		default:
			d.Rebuilt++
		}
	}
	slices.Sort(d.Changed)
	return d
}
