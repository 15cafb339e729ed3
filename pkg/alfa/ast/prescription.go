package ast

// A prescription is the block of obligation and advice statements
// associated with a single effect (`on permit { ... }` / `on deny { ... }`)
// in a rule, policy, or policyset.

// Prescription holds the obligation/advice expressions for one effect.
type Prescription struct {
	Effect      Effect
	NS          []string
	Expressions []PrescriptionExpr
	Loc         Location
}

// PrescriptionKind distinguishes obligations from advice.
type PrescriptionKind int

const (
	PrescriptionObligation PrescriptionKind = iota
	PrescriptionAdvice
)

// String returns the kind name.
func (k PrescriptionKind) String() string {
	if k == PrescriptionAdvice {
		return "Advice"
	}
	return "Obligation"
}

// PrescriptionExpr is a single obligation or advice expression with its
// attribute assignments.
type PrescriptionExpr struct {
	Kind PrescriptionKind
	// ID is the declared obligation/advice name.
	ID string
	// Assignments map destination attributes to values or designators.
	Assignments []AttributeAssignment
	Loc         Location
}

// AttributeAssignment assigns a source value to a destination attribute.
type AttributeAssignment struct {
	DestinationID string
	Source        AssignmentSource
}

// AssignmentSource is the right-hand side of an attribute assignment:
// either a constant value or an attribute designator.
type AssignmentSource struct {
	// Attribute is set when the source is a designator.
	Attribute *AttributeDesignator
	// Value is set when the source is a constant.
	Value *Constant
}

// ObligationDef declares a named obligation with its XACML ObligationId.
type ObligationDef struct {
	ID  string
	URI string
	NS  []string
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (o *ObligationDef) FullyQualifiedName() string {
	return joinQualified(o.NS, o.ID)
}

// AdviceDef declares a named advice with its XACML AdviceId.
type AdviceDef struct {
	ID  string
	URI string
	NS  []string
	Loc Location
}

// FullyQualifiedName returns the dotted namespace-qualified name.
func (a *AdviceDef) FullyQualifiedName() string {
	return joinQualified(a.NS, a.ID)
}
