package ast

import "strings"

// Operator is a reference to an infix operator in an expression or target
// match. The operator symbol may be qualified with a namespace path
// (`a.b.>=`), in which case NS holds the qualifier.
type Operator struct {
	NS       []string // namespace qualifier, not including the operator
	Operator string   // operator symbols
	Loc      Location
}

// QualifiedName returns the fully qualified operator name.
func (o *Operator) QualifiedName() string {
	if len(o.NS) == 0 {
		return o.Operator
	}
	return strings.Join(o.NS, ".") + "." + o.Operator
}

// BindingPower returns the left and right binding power of an operator
// symbol, determined by its first character. Operators starting with '|'
// or '&' or '@' or '^' are right associative; the rest are left
// associative. Unknown leading characters bind weakest.
func BindingPower(symbol string) (left, right int) {
	switch {
	case strings.HasPrefix(symbol, "|"):
		return 12, 11
	case strings.HasPrefix(symbol, "&"):
		return 10, 9
	case strings.HasPrefix(symbol, "="), strings.HasPrefix(symbol, "<"),
		strings.HasPrefix(symbol, ">"), strings.HasPrefix(symbol, "$"):
		return 7, 8
	case strings.HasPrefix(symbol, "@"), strings.HasPrefix(symbol, "^"):
		return 6, 5
	case strings.HasPrefix(symbol, "+"), strings.HasPrefix(symbol, "-"):
		return 3, 4
	case strings.HasPrefix(symbol, "*"), strings.HasPrefix(symbol, "/"),
		strings.HasPrefix(symbol, "%"):
		return 1, 2
	default:
		return 0, 0
	}
}
