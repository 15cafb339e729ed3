package xacml

import (
	"bytes"
	"strings"
	"testing"

	"mercator-hq/alfac/pkg/alfa/ast"
)

func TestWritePolicyXML(t *testing.T) {
	p := &Policy{
		ID:           "urn:example:policy:1",
		CombiningAlg: "urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:first-applicable",
		Description:  "Example policy.",
		Rules: []Rule{{
			ID:     "urn:example:rule:1",
			Effect: ast.EffectPermit,
			Condition: &Condition{Expr: &Apply{
				FunctionURI: "urn:oasis:names:tc:xacml:1.0:function:string-equal",
				Arguments: []Expression{
					&AttributeValue{TypeURI: ast.StringURI, Value: "admin"},
					&AttributeDesignator{
						AttributeID: "urn:oasis:names:tc:xacml:1.0:subject:subject-id",
						Category:    "urn:oasis:names:tc:xacml:1.0:subject-category:access-subject",
						TypeURI:     ast.StringURI,
					},
				},
			}},
		}},
	}

	var buf bytes.Buffer
	if err := p.WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<?xml`,
		`xmlns:xacml3="` + CoreSchemaNS + `"`,
		`PolicyId="urn:example:policy:1"`,
		`RuleCombiningAlgId="urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:first-applicable"`,
		`Version="1.0"`,
		`<xacml3:Description>Example policy.</xacml3:Description>`,
		`<xacml3:Target>`,
		`Effect="Permit"`,
		`RuleId="urn:example:rule:1"`,
		`<xacml3:Condition>`,
		`FunctionId="urn:oasis:names:tc:xacml:1.0:function:string-equal"`,
		`DataType="` + ast.StringURI + `"`,
		`MustBePresent="false"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// element order: Description, Target, then Rules
	desc := strings.Index(out, "<xacml3:Description>")
	target := strings.Index(out, "<xacml3:Target>")
	rule := strings.Index(out, "<xacml3:Rule")
	if !(desc < target && target < rule) {
		t.Errorf("element order positions desc=%d target=%d rule=%d", desc, target, rule)
	}
}

func TestWritePolicySetXML(t *testing.T) {
	ps := &PolicySet{
		ID:           "urn:example:policyset:1",
		CombiningAlg: "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:deny-overrides",
		Children: []PolicyEntry{
			{PolicyIDRef: "urn:example:policy:1"},
			{PolicySetIDRef: "urn:example:policyset:2"},
			{Policy: &Policy{
				ID:           "urn:example:policy:2",
				CombiningAlg: "urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:first-applicable",
			}},
		},
	}

	var buf bytes.Buffer
	if err := ps.WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`PolicySetId="urn:example:policyset:1"`,
		`PolicyCombiningAlgId="urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:deny-overrides"`,
		`<xacml3:PolicyIdReference>urn:example:policy:1</xacml3:PolicyIdReference>`,
		`<xacml3:PolicySetIdReference>urn:example:policyset:2</xacml3:PolicySetIdReference>`,
		`PolicyId="urn:example:policy:2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	// only the root element carries the namespace declaration
	if n := strings.Count(out, "xmlns:xacml3"); n != 1 {
		t.Errorf("xmlns declarations = %d, want 1", n)
	}
}

func TestWriteTargetXML(t *testing.T) {
	p := &Policy{
		ID:           "urn:example:policy:1",
		CombiningAlg: "urn:x",
		Target: Target{AnyOfs: []AnyOf{{AllOfs: []AllOf{{Matches: []Match{{
			MatchID:            "urn:oasis:names:tc:xacml:1.0:function:string-equal",
			Value:              "read",
			ValueType:          ast.StringURI,
			DesignatorID:       "urn:oasis:names:tc:xacml:1.0:action:action-id",
			DesignatorCategory: "urn:oasis:names:tc:xacml:3.0:attribute-category:action",
			DesignatorType:     ast.StringURI,
			Issuer:             "idp",
		}}}}}}},
	}

	var buf bytes.Buffer
	if err := p.WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<xacml3:AnyOf>`,
		`<xacml3:AllOf>`,
		`MatchId="urn:oasis:names:tc:xacml:1.0:function:string-equal"`,
		`>read</xacml3:AttributeValue>`,
		`AttributeId="urn:oasis:names:tc:xacml:1.0:action:action-id"`,
		`Issuer="idp"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestWritePrescriptionsXML(t *testing.T) {
	p := &Policy{
		ID:           "urn:example:policy:1",
		CombiningAlg: "urn:x",
		Prescriptions: []PrescriptionExpr{
			{
				Kind:      ast.PrescriptionObligation,
				ID:        "urn:example:obligation:audit",
				FulfillOn: ast.EffectPermit,
				Assignments: []AttributeAssignment{{
					AttributeID: "urn:example:attr:message",
					Category:    "urn:oasis:names:tc:xacml:1.0:subject-category:access-subject",
					Value:       &AttributeValue{TypeURI: ast.StringURI, Value: "granted"},
				}},
			},
			{
				Kind:      ast.PrescriptionAdvice,
				ID:        "urn:example:advice:notify",
				FulfillOn: ast.EffectDeny,
			},
		},
	}

	var buf bytes.Buffer
	if err := p.WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<xacml3:ObligationExpressions>`,
		`ObligationId="urn:example:obligation:audit"`,
		`FulfillOn="Permit"`,
		`<xacml3:AttributeAssignmentExpression`,
		`>granted</xacml3:AttributeValue>`,
		`<xacml3:AdviceExpressions>`,
		`AdviceId="urn:example:advice:notify"`,
		`AppliesTo="Deny"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	obls := strings.Index(out, "<xacml3:ObligationExpressions>")
	advs := strings.Index(out, "<xacml3:AdviceExpressions>")
	if !(obls >= 0 && advs >= 0 && obls < advs) {
		t.Errorf("obligations at %d, advice at %d; want obligations first", obls, advs)
	}
}
