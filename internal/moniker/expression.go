package moniker

import "fmt"

// Operator is a comparison operator in a range expression.
type Operator string

const (
	OpEqual          Operator = "="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
)

// satisfied reports whether position pos relates to ref according to op.
func (op Operator) satisfied(pos, ref int) bool {
	switch op {
	case OpEqual:
		return pos == ref
	case OpLess:
		return pos < ref
	case OpLessOrEqual:
		return pos <= ref
	case OpGreater:
		return pos > ref
	case OpGreaterOrEqual:
		return pos >= ref
	}
	return false
}

// Expression is an immutable node of a parsed range.
type Expression interface {
	fmt.Stringer
	isExpression()
}

// Literal is a bare moniker name.
type Literal struct{ Name string }

// Comparison selects monikers positioned relative to Name.
type Comparison struct {
	Op   Operator
	Name string
}

// And intersects its operands.
type And struct{ Left, Right Expression }

// Or unions its operands.
type Or struct{ Left, Right Expression }

// Not complements its operand within the universe.
type Not struct{ Child Expression }

func (Literal) isExpression()    {}
func (Comparison) isExpression() {}
func (And) isExpression()        {}
func (Or) isExpression()         {}
func (Not) isExpression()        {}

func (e Literal) String() string    { return e.Name }
func (e Comparison) String() string { return string(e.Op) + " " + e.Name }
func (e And) String() string        { return "(" + e.Left.String() + " " + e.Right.String() + ")" }
func (e Or) String() string         { return "(" + e.Left.String() + " || " + e.Right.String() + ")" }
func (e Not) String() string        { return "!" + e.Child.String() }
