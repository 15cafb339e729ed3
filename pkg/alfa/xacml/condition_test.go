package xacml

import (
	"testing"

	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// convertRule parses a single-rule policy and returns the converted rule.
func convertRule(t *testing.T, body string) (Rule, *alfaErrors.Error) {
	t.Helper()
	cv, coll := converterFor(t, `
namespace x {
	attribute flag {
		id = "urn:example:attr:flag"
		type = boolean
		category = subjectCat
	}
	policy p {
		apply firstApplicable
		rule r { permit `+body+` }
	}
}`)
	entry, err := cv.PolicyEntry(coll.Policies()[0])
	if err != nil {
		return Rule{}, err
	}
	return entry.Policy.Rules[0], nil
}

func TestConditionAtomicApply(t *testing.T) {
	rule, err := convertRule(t, `condition stringOneAndOnly(subjectId) == "admin"`)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}

	apply, ok := rule.Condition.Expr.(*Apply)
	if !ok {
		t.Fatalf("expr = %T, want *Apply", rule.Condition.Expr)
	}
	if apply.FunctionURI != "urn:oasis:names:tc:xacml:1.0:function:string-equal" {
		t.Errorf("FunctionId = %q", apply.FunctionURI)
	}
	if apply.ReturnType.URI != ast.BooleanURI || apply.ReturnType.Shape != TypeAtomic {
		t.Errorf("return type = %+v", apply.ReturnType)
	}
	if len(apply.Arguments) != 2 {
		t.Fatalf("arguments = %d, want 2", len(apply.Arguments))
	}

	inner, ok := apply.Arguments[0].(*Apply)
	if !ok || inner.FunctionURI != "urn:oasis:names:tc:xacml:1.0:function:string-one-and-only" {
		t.Errorf("argument 0 = %+v, want one-and-only apply", apply.Arguments[0])
	}
	val, ok := apply.Arguments[1].(*AttributeValue)
	if !ok || val.Value != "admin" {
		t.Errorf("argument 1 = %+v, want literal admin", apply.Arguments[1])
	}
}

func TestConditionBagLifting(t *testing.T) {
	rule, err := convertRule(t, `condition subjectId == "admin"`)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}

	// the bare attribute is a bag, so equality lifts through any-of-any
	apply, ok := rule.Condition.Expr.(*Apply)
	if !ok {
		t.Fatalf("expr = %T, want *Apply", rule.Condition.Expr)
	}
	if apply.FunctionURI != anyOfAnyURI {
		t.Errorf("FunctionId = %q, want any-of-any", apply.FunctionURI)
	}
	if len(apply.Arguments) != 3 {
		t.Fatalf("arguments = %d, want 3", len(apply.Arguments))
	}
	fn, ok := apply.Arguments[0].(*FunctionRef)
	if !ok || fn.FunctionURI != "urn:oasis:names:tc:xacml:1.0:function:string-equal" {
		t.Errorf("argument 0 = %+v, want string-equal function", apply.Arguments[0])
	}
	if _, ok := apply.Arguments[1].(*AttributeDesignator); !ok {
		t.Errorf("argument 1 = %T, want designator", apply.Arguments[1])
	}
	if _, ok := apply.Arguments[2].(*AttributeValue); !ok {
		t.Errorf("argument 2 = %T, want value", apply.Arguments[2])
	}
}

func TestConditionDesignatorFields(t *testing.T) {
	rule, err := convertRule(t, `condition subjectId[mustbepresent issuer="idp"] == "x"`)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}

	apply := rule.Condition.Expr.(*Apply)
	d := apply.Arguments[1].(*AttributeDesignator)
	if d.AttributeID != "urn:oasis:names:tc:xacml:1.0:subject:subject-id" {
		t.Errorf("AttributeId = %q", d.AttributeID)
	}
	if d.TypeURI != ast.StringURI || !d.MustBePresent || d.Issuer != "idp" {
		t.Errorf("designator = %+v", d)
	}
}

func TestConditionMustBeBoolean(t *testing.T) {
	_, err := convertRule(t, `condition 1 + 2`)
	if got := errType(t, err); got != alfaErrors.ErrorTypeConditionBoolean {
		t.Errorf("error type = %q, want condition-boolean", got)
	}
}

func TestConditionBagsDisallowed(t *testing.T) {
	// && accepts only atomic booleans; flag resolves to a bag
	_, err := convertRule(t, `condition flag && true`)
	if got := errType(t, err); got != alfaErrors.ErrorTypeBagsDisallowed {
		t.Errorf("error type = %q, want bags-disallowed", got)
	}
}

func TestConditionBagLiftingRequiresBoolean(t *testing.T) {
	cv, coll := converterFor(t, `
namespace x {
	infix allowbags (@@) = {
		"urn:example:function:concat" : string string -> string
	}
	policy p {
		apply firstApplicable
		rule r { permit condition (subjectId @@ "x") == "y" }
	}
}`)

	_, err := cv.PolicyEntry(coll.Policies()[0])
	if got := errType(t, err); got != alfaErrors.ErrorTypeBagsBooleanRequired {
		t.Errorf("error type = %q, want bags-boolean-required", got)
	}
}

func TestConditionTypeMismatch(t *testing.T) {
	// no == signature takes (string, integer); the expression has no
	// type, which the condition gate reports
	_, err := convertRule(t, `condition stringOneAndOnly(subjectId) == 42`)
	if got := errType(t, err); got != alfaErrors.ErrorTypeConditionBoolean {
		t.Errorf("error type = %q, want condition-boolean", got)
	}
}
