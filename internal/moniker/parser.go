package moniker

import "strings"

type parser struct {
	src  string
	toks []token
	pos  int
}

// Parse turns a range string into an Expression. It does not consult any
// moniker universe; unknown names surface at evaluation.
func Parse(rangeString string) (Expression, error) {
	expr, err := parse(rangeString)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func parse(rangeString string) (Expression, *RangeError) {
	if strings.TrimSpace(rangeString) == "" {
		return nil, syntaxError(rangeString, 0, "range is empty")
	}
	toks, err := tokenize(rangeString)
	if err != nil {
		return nil, err
	}
	p := &parser{src: rangeString, toks: toks}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, syntaxError(p.src, t.col, "unbalanced ')'")
		}
		return nil, syntaxError(p.src, t.col, "unexpected '%s'", t.text)
	}
	return expr, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (Expression, *RangeError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

// startsUnary reports whether t can begin an operand; juxtaposed operands are ANDed.
func startsUnary(t token) bool {
	switch t.kind {
	case tokName, tokOp, tokNot, tokLParen:
		return true
	}
	return false
}

func (p *parser) parseAnd() (Expression, *RangeError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind == tokAnd {
			p.next()
		} else if !startsUnary(t) {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expression, *RangeError) {
	if p.peek().kind == tokNot {
		p.next()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Child: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expression, *RangeError) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, syntaxError(p.src, t.col, "unbalanced '(': missing ')'")
		}
		return expr, nil
	case tokOp:
		name := p.next()
		if name.kind != tokName {
			return nil, syntaxError(p.src, name.col, "expected moniker name after '%s'", t.text)
		}
		return Comparison{Op: Operator(t.text), Name: name.text}, nil
	case tokName:
		return Literal{Name: t.text}, nil
	case tokEOF:
		return nil, syntaxError(p.src, t.col, "unexpected end of range")
	case tokRParen:
		return nil, syntaxError(p.src, t.col, "unbalanced ')'")
	default:
		return nil, syntaxError(p.src, t.col, "unexpected '%s'", t.text)
	}
}
