package ast

import (
	"fmt"
	"strings"

	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// Condition is a boolean expression attached to a rule, policy, or
// policyset.
type Condition struct {
	Expr CondExpression
	// NS is the namespace the condition was written in.
	NS  []string
	Loc Location
}

// CondExpression is one node of a condition expression tree. Exactly one
// of the variant pointers is set; an all-nil expression is the empty
// expression.
type CondExpression interface {
	condExpr()
	String() string
}

// InfixExpr applies an infix operator to two subexpressions.
type InfixExpr struct {
	Left  CondExpression
	Op    Operator
	Right CondExpression
}

// FunctionCall invokes a declared function with argument expressions.
type FunctionCall struct {
	// Identifier is the possibly-qualified function name.
	Identifier []string
	Arguments  []CondExpression
}

// AttributeRef wraps an attribute designator used as a value.
type AttributeRef struct {
	Designator AttributeDesignator
}

// FunctionRef passes a function by name (`function[name]`) as an argument.
type FunctionRef struct {
	Identifier []string
}

// Literal wraps a constant value.
type Literal struct {
	Value Constant
}

// EmptyExpr is the absence of an expression.
type EmptyExpr struct{}

func (*InfixExpr) condExpr()    {}
func (*FunctionCall) condExpr() {}
func (*AttributeRef) condExpr() {}
func (*FunctionRef) condExpr()  {}
func (*Literal) condExpr()      {}
func (*EmptyExpr) condExpr()    {}

func (e *InfixExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.Operator, e.Right.String())
}

func (e *FunctionCall) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	return strings.Join(e.Identifier, ".") + "(" + strings.Join(args, ", ") + ")"
}

func (e *AttributeRef) String() string { return e.Designator.String() }

func (e *FunctionRef) String() string {
	return "fn[" + strings.Join(e.Identifier, ".") + "]"
}

func (e *Literal) String() string { return e.Value.Lexical() }

func (e *EmptyExpr) String() string { return "<empty>" }

// FullyQualifiedName returns the dotted function name of a call.
func (e *FunctionCall) FullyQualifiedName() string {
	return strings.Join(e.Identifier, ".")
}

// FullyQualifiedName returns the dotted function name of a reference.
func (e *FunctionRef) FullyQualifiedName() string {
	return strings.Join(e.Identifier, ".")
}

// CondItem is one element of the flat atom/operator sequence the parser
// produces before operator precedence is applied.
type CondItem struct {
	// Atom is set for operand items.
	Atom CondExpression
	// Op is set for operator items.
	Op *Operator
}

// BuildExpression assembles a flat atom/operator sequence into an
// expression tree using the operators' binding powers.
func BuildExpression(items []CondItem, loc Location) (CondExpression, error) {
	rest := items
	expr, err := exprBP(&rest, 0, loc)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, alfaErrors.New(alfaErrors.ErrorTypeConvert,
			"Trailing items in condition expression", loc)
	}
	return expr, nil
}

// exprBP is a Pratt expression builder over the remaining item slice.
func exprBP(items *[]CondItem, minBindingPower int, loc Location) (CondExpression, error) {
	if len(*items) == 0 || (*items)[0].Atom == nil {
		return nil, alfaErrors.New(alfaErrors.ErrorTypeConvert,
			"Expected an operand in condition expression", loc)
	}
	lhs := (*items)[0].Atom
	*items = (*items)[1:]

	for {
		if len(*items) == 0 {
			break
		}
		op := (*items)[0].Op
		if op == nil {
			return nil, alfaErrors.New(alfaErrors.ErrorTypeConvert,
				"Expected an operator in condition expression", loc)
		}
		left, right := BindingPower(op.Operator)
		// the next operator binds weaker, this expression is complete
		if left < minBindingPower {
			break
		}
		*items = (*items)[1:]
		rhs, err := exprBP(items, right, loc)
		if err != nil {
			return nil, err
		}
		lhs = &InfixExpr{Left: lhs, Op: *op, Right: rhs}
	}
	return lhs, nil
}
