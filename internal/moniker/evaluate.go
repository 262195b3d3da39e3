package moniker

// Evaluate resolves expr against the universe in def. The result is
// deduplicated and in canonical (declaration) order. A returned RangeError
// has no Range; the caller holding the source string sets it.
func Evaluate(expr Expression, def *Definition) ([]string, error) {
	s, err := evaluate(expr, def)
	if err != nil {
		return nil, err
	}
	return s.names(def), nil
}

func evaluate(expr Expression, def *Definition) (set, *RangeError) {
	switch e := expr.(type) {
	case Literal:
		i, ok := def.Lookup(e.Name)
		if !ok {
			return nil, unknownMoniker(e.Name)
		}
		s := newSet(def.Len())
		s[i] = true
		return s, nil
	case Comparison:
		ref, ok := def.Lookup(e.Name)
		if !ok {
			return nil, unknownMoniker(e.Name)
		}
		product := def.monikers[ref].Product
		s := newSet(def.Len())
		for i, m := range def.monikers {
			// Comparisons never cross product lines.
			if m.Product == product && e.Op.satisfied(i, ref) {
				s[i] = true
			}
		}
		return s, nil
	case And:
		l, err := evaluate(e.Left, def)
		if err != nil {
			return nil, err
		}
		r, err := evaluate(e.Right, def)
		if err != nil {
			return nil, err
		}
		return l.intersect(r), nil
	case Or:
		l, err := evaluate(e.Left, def)
		if err != nil {
			return nil, err
		}
		r, err := evaluate(e.Right, def)
		if err != nil {
			return nil, err
		}
		return l.union(r), nil
	case Not:
		c, err := evaluate(e.Child, def)
		if err != nil {
			return nil, err
		}
		return c.complement(), nil
	}
	return nil, &RangeError{Kind: KindInvalidRangeSyntax, Reason: "unsupported expression node"}
}

func unknownMoniker(name string) *RangeError {
	return &RangeError{
		Kind:    KindUnknownMoniker,
		Moniker: name,
		Reason:  "moniker '" + name + "' is not defined",
	}
}
