package core

import "strings"

type Operator int

const (
	Equals Operator = iota
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
)

func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "=":
		return Equals, true
	case "<>":
		return NotEquals, true
	case "<":
		return LessThan, true
	case ">":
		return GreaterThan, true
	case "<=":
		return LessThanOrEqual, true
	case ">=":
		return GreaterThanOrEqual, true
	default:
		return 0, false
	}
}

func (o Operator) String() string {
	switch o {
	case Equals:
		return "="
	case NotEquals:
		return "<>"
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanOrEqual:
		return "<="
	case GreaterThanOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Predicate is a single `column operator literal` condition.
type Predicate struct {
	Column   string
	Operator Operator
	Literal  string
}

func (p Predicate) String() string {
	return p.Column + " " + p.Operator.String() + " " + p.Literal
}

// Evaluate compares lhs against rhs.
//
// Equality operators compare the raw strings. Ordering operators only
// match when both sides are made of decimal digits, compared as
// unbounded integers; anything else evaluates to false.
func Evaluate(lhs string, op Operator, rhs string) bool {
	switch op {
	case Equals:
		return lhs == rhs
	case NotEquals:
		return lhs != rhs
	}

	if !isDigits(lhs) || !isDigits(rhs) {
		return false
	}
	cmp := compareDigits(lhs, rhs)

	switch op {
	case LessThan:
		return cmp < 0
	case GreaterThan:
		return cmp > 0
	case LessThanOrEqual:
		return cmp <= 0
	case GreaterThanOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

// compareDigits orders two digit strings numerically without parsing,
// so values beyond int64 still compare correctly.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
