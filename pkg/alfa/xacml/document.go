package xacml

import (
	"mercator-hq/alfac/pkg/alfa/ast"
)

// CoreSchemaNS is the XACML 3.0 core schema namespace.
const CoreSchemaNS = "urn:oasis:names:tc:xacml:3.0:core:schema:wd-17"

// anyOfAnyURI lifts a scalar function over bag arguments.
const anyOfAnyURI = "urn:oasis:names:tc:xacml:3.0:function:any-of-any"

// TypeShape classifies a resolved expression type.
type TypeShape int

const (
	// TypeAtomic is a specific atomic type.
	TypeAtomic TypeShape = iota
	// TypeAtomicBag is a bag of a specific atomic type.
	TypeAtomicBag
	// TypeAnyAtomicBag is a bag of an unspecified atomic type.
	TypeAnyAtomicBag
	// TypeAnyAtomic is an unspecified atomic type.
	TypeAnyAtomic
)

// ResolvedType is an expression type resolved down to a XACML data-type
// URI. The URI is empty for the unspecific shapes.
type ResolvedType struct {
	Shape TypeShape
	URI   string
}

// IsBag reports whether the type is a bag shape.
func (t ResolvedType) IsBag() bool {
	return t.Shape == TypeAtomicBag || t.Shape == TypeAnyAtomicBag
}

func atomicType(uri string) ResolvedType {
	return ResolvedType{Shape: TypeAtomic, URI: uri}
}

func atomicBagType(uri string) ResolvedType {
	return ResolvedType{Shape: TypeAtomicBag, URI: uri}
}

// Expression is a node of a XACML expression: an Apply, a Function
// reference, an AttributeValue, or an AttributeDesignator.
// (VariableReference and AttributeSelector are not generated.)
type Expression interface {
	xacmlExpr()
}

// Apply applies a XACML function to argument expressions.
type Apply struct {
	FunctionURI string
	Arguments   []Expression
	ReturnType  ResolvedType
}

// FunctionRef passes a XACML function by identifier, as an argument to
// a higher-order function.
type FunctionRef struct {
	FunctionURI string
}

// AttributeValue is a literal with its data-type URI.
type AttributeValue struct {
	TypeURI string
	Value   string
}

// AttributeDesignator references an attribute in the request context.
type AttributeDesignator struct {
	AttributeID   string
	Category      string
	TypeURI       string
	MustBePresent bool
	// Issuer is "" when any issuer is acceptable.
	Issuer string
}

func (*Apply) xacmlExpr()               {}
func (*FunctionRef) xacmlExpr()         {}
func (*AttributeValue) xacmlExpr()      {}
func (*AttributeDesignator) xacmlExpr() {}

// Condition wraps the boolean expression of a rule.
type Condition struct {
	Expr Expression
}

// Match is a single Match element: a match function applied to a
// literal and an attribute designator.
type Match struct {
	MatchID            string
	Value              string
	ValueType          string
	DesignatorID       string
	DesignatorCategory string
	DesignatorType     string
	MustBePresent      bool
	Issuer             string
}

// AllOf is a conjunction of matches.
type AllOf struct {
	Matches []Match
}

// AnyOf is a disjunction of AllOf groups.
type AnyOf struct {
	AllOfs []AllOf
}

// Target is the target of a rule, policy, or policyset. An empty
// target matches any request.
type Target struct {
	AnyOfs []AnyOf
}

// AttributeAssignment assigns a value or designator to an attribute
// returned with an obligation or advice.
type AttributeAssignment struct {
	AttributeID string
	Category    string
	// Exactly one of Value and Designator is set.
	Value      *AttributeValue
	Designator *AttributeDesignator
}

// PrescriptionExpr is one ObligationExpression or AdviceExpression.
type PrescriptionExpr struct {
	Kind        ast.PrescriptionKind
	ID          string
	FulfillOn   ast.Effect
	Assignments []AttributeAssignment
}

// splitPrescriptions separates obligations from advice, preserving
// order within each group.
func splitPrescriptions(exprs []PrescriptionExpr) (obligations, advice []PrescriptionExpr) {
	for _, e := range exprs {
		if e.Kind == ast.PrescriptionAdvice {
			advice = append(advice, e)
		} else {
			obligations = append(obligations, e)
		}
	}
	return obligations, advice
}

// Rule is a Rule element inside a Policy.
type Rule struct {
	ID            string
	Description   string
	Effect        ast.Effect
	Target        Target
	Condition     *Condition
	Prescriptions []PrescriptionExpr
}

// Policy is a Policy element and its children.
type Policy struct {
	ID            string
	Filename      string
	CombiningAlg  string
	Description   string
	Target        Target
	Rules         []Rule
	Prescriptions []PrescriptionExpr
}

// PolicySet is a PolicySet element and its children.
type PolicySet struct {
	ID            string
	Filename      string
	CombiningAlg  string
	Description   string
	Target        Target
	Children      []PolicyEntry
	Prescriptions []PrescriptionExpr
}

// PolicyEntry is one child of a PolicySet: an inline policy or
// policyset, or an identifier reference to one defined elsewhere.
// Exactly one field is set.
type PolicyEntry struct {
	PolicyIDRef    string
	PolicySetIDRef string
	Policy         *Policy
	PolicySet      *PolicySet
}
