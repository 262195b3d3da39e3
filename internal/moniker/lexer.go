package moniker

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokOp
	tokOr
	tokAnd
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	col  int // 1-based
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '.' || c == '_' || c == '-'
}

// tokenize splits a range string into tokens.
func tokenize(s string) ([]token, *RangeError) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		col := i + 1
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case isNameByte(c):
			start := i
			for i < len(s) && isNameByte(s[i]) {
				i++
			}
			toks = append(toks, token{kind: tokName, text: s[start:i], col: col})
		case c == '<' || c == '>':
			if i+1 < len(s) && s[i+1] == '=' {
				toks = append(toks, token{kind: tokOp, text: s[i : i+2], col: col})
				i += 2
			} else {
				toks = append(toks, token{kind: tokOp, text: s[i : i+1], col: col})
				i++
			}
		case c == '=':
			toks = append(toks, token{kind: tokOp, text: "=", col: col})
			i++
		case c == '|' || c == '&':
			if i+1 >= len(s) || s[i+1] != c {
				return nil, syntaxError(s, col, "unknown operator '%c'", c)
			}
			kind := tokOr
			if c == '&' {
				kind = tokAnd
			}
			toks = append(toks, token{kind: kind, text: s[i : i+2], col: col})
			i += 2
		case c == '!':
			toks = append(toks, token{kind: tokNot, text: "!", col: col})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", col: col})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", col: col})
			i++
		default:
			return nil, syntaxError(s, col, "unexpected character '%c'", c)
		}
	}
	toks = append(toks, token{kind: tokEOF, col: len(s) + 1})
	return toks, nil
}
