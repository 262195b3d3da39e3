package moniker

// set is a membership vector indexed by universe position. Iterating it
// always yields canonical order.
type set []bool

func newSet(n int) set { return make(set, n) }

func (s set) intersect(o set) set {
	out := newSet(len(s))
	for i := range s {
		out[i] = s[i] && o[i]
	}
	return out
}

func (s set) union(o set) set {
	out := newSet(len(s))
	for i := range s {
		out[i] = s[i] || o[i]
	}
	return out
}

func (s set) complement() set {
	out := newSet(len(s))
	for i := range s {
		out[i] = !s[i]
	}
	return out
}

func (s set) names(d *Definition) []string {
	out := make([]string, 0, len(s))
	for i, in := range s {
		if in {
			out = append(out, d.monikers[i].Name)
		}
	}
	return out
}

// Intersect returns the members of ordered that also appear in other,
// keeping ordered's order.
func Intersect(ordered, other []string) []string {
	lookup := make(map[string]struct{}, len(other))
	for _, n := range other {
		lookup[n] = struct{}{}
	}
	out := make([]string, 0, len(ordered))
	for _, n := range ordered {
		if _, ok := lookup[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
