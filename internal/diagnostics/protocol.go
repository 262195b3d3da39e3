package diagnostics

// Position is a 0-based editor position.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a 0-based editor range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// ProtocolDiagnostic mirrors the editor protocol diagnostic shape.
type ProtocolDiagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Code     string `json:"code"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// ToProtocol converts diagnostics to the editor protocol shape.
func ToProtocol(ds []Diagnostic) []ProtocolDiagnostic {
	out := make([]ProtocolDiagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, ProtocolDiagnostic{
			Range: Range{
				Start: Position{Line: zeroBased(d.Source.Line), Character: zeroBased(d.Source.Column)},
				End:   Position{Line: zeroBased(d.Source.EndLine), Character: zeroBased(d.Source.EndColumn)},
			},
			Severity: severity(d.Level),
			Code:     d.Code,
			Source:   "docset",
			Message:  d.Message,
		})
	}
	return out
}

func zeroBased(v int) int {
	if v <= 1 {
		return 0
	}
	return v - 1
}

// Protocol severities: 1 error, 2 warning, 3 information, 4 hint.
func severity(l Level) int {
	switch l {
	case LevelError:
		return 1
	case LevelWarning:
		return 2
	case LevelSuggestion:
		return 3
	default:
		return 4
	}
}
