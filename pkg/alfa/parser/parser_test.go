package parser

import (
	"errors"
	"testing"

	"mercator-hq/alfac/pkg/alfa/ast"
	"mercator-hq/alfac/pkg/alfa/compiler"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

func parseSource(t *testing.T, src string) (*ast.Document, *compiler.Context) {
	t.Helper()
	ctx := compiler.New(compiler.DefaultConfig())
	doc, err := NewParser(ctx).ParseBytes("test.alfa", []byte(src))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return doc, ctx
}

func parseErrorType(t *testing.T, src string) alfaErrors.ErrorType {
	t.Helper()
	ctx := compiler.New(compiler.DefaultConfig())
	_, err := NewParser(ctx).ParseBytes("test.alfa", []byte(src))
	if err == nil {
		t.Fatalf("ParseBytes() succeeded, want error")
	}
	var perr *alfaErrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error is %T, want *alfaErrors.Error", err)
	}
	return perr.Type
}

func TestParseNamespaceDeclarations(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	import other.place.*
	type ssn = "urn:example:ssn"
	category deviceCat = "urn:example:category:device"
	advice logAccess = "urn:example:advice:log"
	obligation notify = "urn:example:obligation:notify"
	ruleCombinator myComb = "urn:example:combinator:mine"

	attribute subjectAge {
		id = "urn:example:attr:age"
		type = integer
		category = subjectCat
	}
}`)

	if len(doc.Namespaces) != 1 {
		t.Fatalf("namespaces = %d, want 1", len(doc.Namespaces))
	}
	ns := doc.Namespaces[0]
	if got := ns.DottedName(); got != "com.acme" {
		t.Errorf("namespace = %q, want com.acme", got)
	}
	if len(ns.Imports) != 1 || !ns.Imports[0].Wildcard {
		t.Errorf("imports = %+v, want one wildcard import", ns.Imports)
	}
	if len(ns.Types) != 1 || ns.Types[0].ID != "ssn" || ns.Types[0].URI != "urn:example:ssn" {
		t.Errorf("types = %+v", ns.Types)
	}
	if len(ns.Categories) != 1 || ns.Categories[0].ID != "deviceCat" {
		t.Errorf("categories = %+v", ns.Categories)
	}
	if len(ns.Advice) != 1 || len(ns.Obligations) != 1 || len(ns.RuleCombinators) != 1 {
		t.Errorf("advice/obligations/combinators = %d/%d/%d, want 1/1/1",
			len(ns.Advice), len(ns.Obligations), len(ns.RuleCombinators))
	}
	if len(ns.Attributes) != 1 {
		t.Fatalf("attributes = %d, want 1", len(ns.Attributes))
	}
	attr := ns.Attributes[0]
	if attr.ID != "subjectAge" || attr.Type != "integer" || attr.Category != "subjectCat" ||
		attr.URI != "urn:example:attr:age" {
		t.Errorf("attribute = %+v", attr)
	}
}

func TestParseNestedNamespaces(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	namespace inner {
		type t = "urn:t"
	}
}`)

	outer := doc.Namespaces[0]
	if len(outer.Namespaces) != 1 {
		t.Fatalf("nested namespaces = %d, want 1", len(outer.Namespaces))
	}
	inner := outer.Namespaces[0]
	if got := inner.DottedName(); got != "com.acme.inner" {
		t.Errorf("nested namespace = %q, want com.acme.inner", got)
	}
	if len(inner.Types) != 1 {
		t.Errorf("nested types = %d, want 1", len(inner.Types))
	}
}

func TestParsePolicyNamingForms(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy { apply denyOverrides }
	policy named { apply denyOverrides }
	policy withURI = "urn:example:policy:1" { apply denyOverrides }
}`)

	pols := doc.Namespaces[0].Policies
	if len(pols) != 3 {
		t.Fatalf("policies = %d, want 3", len(pols))
	}
	if pols[0].ID.Kind != ast.PolicyNoName {
		t.Errorf("policy 0 kind = %v, want PolicyNoName", pols[0].ID.Kind)
	}
	if pols[1].ID.Kind != ast.PolicyNamed || pols[1].ID.Name != "named" {
		t.Errorf("policy 1 = %+v", pols[1].ID)
	}
	if pols[2].ID.Kind != ast.PolicyNamedWithID || pols[2].ID.Name != "withURI" ||
		pols[2].ID.URI != "urn:example:policy:1" {
		t.Errorf("policy 2 = %+v", pols[2].ID)
	}
	if pols[1].Apply.ID != "denyOverrides" {
		t.Errorf("apply = %q, want denyOverrides", pols[1].Apply.ID)
	}
}

func TestParseCommentsBecomeDescriptions(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	// Grants baseline access.
	policy base {
		apply denyOverrides
		/* Everyone may read. */
		rule readers { permit }
	}
}`)

	pol := doc.Namespaces[0].Policies[0]
	if pol.Description != "Grants baseline access." {
		t.Errorf("policy description = %q", pol.Description)
	}
	rule := pol.Rules[0].Def
	if rule.Description != "Everyone may read." {
		t.Errorf("rule description = %q", rule.Description)
	}
}

func TestParseRuleStatements(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		rule allowAdmins {
			permit
			target clause subjectId == "admin"
			condition true
		}
		rule { deny }
	}
}`)

	rules := doc.Namespaces[0].Policies[0].Rules
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
	named := rules[0].Def
	if named.ID != "allowAdmins" || named.Effect != ast.EffectPermit {
		t.Errorf("rule = %q effect %v", named.ID, named.Effect)
	}
	if named.Target == nil || named.Condition == nil {
		t.Errorf("rule target/condition = %v/%v, want both set", named.Target, named.Condition)
	}
	anon := rules[1].Def
	if anon.ID != "" || anon.Effect != ast.EffectDeny {
		t.Errorf("anonymous rule = %q effect %v", anon.ID, anon.Effect)
	}
}

func TestParseRuleAndPolicyReferences(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		shared.rules.allowAll
	}
	policyset ps {
		apply denyOverrides
		p
		other.ns.base
	}
}`)

	ruleRef := doc.Namespaces[0].Policies[0].Rules[0].Ref
	if ruleRef == nil {
		t.Fatal("rule entry is not a reference")
	}
	if ruleRef.ID != "allowAll" || len(ruleRef.NS) != 2 || ruleRef.NS[0] != "shared" {
		t.Errorf("rule ref = %+v", ruleRef)
	}

	entries := doc.Namespaces[0].PolicySets[0].Policies
	if len(entries) != 2 {
		t.Fatalf("policyset entries = %d, want 2", len(entries))
	}
	if entries[0].Ref == nil || entries[0].Ref.ID != "p" || len(entries[0].Ref.NS) != 0 {
		t.Errorf("entry 0 = %+v", entries[0].Ref)
	}
	if entries[1].Ref == nil || entries[1].Ref.ID != "base" || len(entries[1].Ref.NS) != 2 {
		t.Errorf("entry 1 = %+v", entries[1].Ref)
	}
}

func TestParseTargetClauses(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		target
			clause subjectId == "alice" and "read" == actionId or subjectId == "bob"
			clause resourceId == "doc"
	}
}`)

	target := doc.Namespaces[0].Policies[0].Target
	if len(target.Clauses) != 2 {
		t.Fatalf("clauses = %d, want 2", len(target.Clauses))
	}

	first := target.Clauses[0]
	if len(first.Statements) != 2 {
		t.Fatalf("disjuncts = %d, want 2", len(first.Statements))
	}
	if n := len(first.Statements[0].Matches); n != 2 {
		t.Errorf("first conjunction matches = %d, want 2", n)
	}
	if n := len(first.Statements[1].Matches); n != 1 {
		t.Errorf("second conjunction matches = %d, want 1", n)
	}

	// designator-first matches are reversed, literal-first are not
	m0 := first.Statements[0].Matches[0].Op
	if !m0.Reversed || m0.Attribute[0] != "subjectId" || m0.Literal.StringVal != "alice" {
		t.Errorf("match 0 = %+v", m0)
	}
	m1 := first.Statements[0].Matches[1].Op
	if m1.Reversed || m1.Attribute[0] != "actionId" || m1.Literal.StringVal != "read" {
		t.Errorf("match 1 = %+v", m1)
	}
}

func TestParseTargetFunctionMatch(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		target clause stringMatch("al.*", subjectId[mustbepresent issuer="idp"])
	}
}`)

	m := doc.Namespaces[0].Policies[0].Target.Clauses[0].Statements[0].Matches[0]
	if m.Func == nil {
		t.Fatal("match is not a function match")
	}
	if m.Func.FunctionID[0] != "stringMatch" || m.Func.Literal.StringVal != "al.*" {
		t.Errorf("function match = %+v", m.Func)
	}
	if m.Func.Attribute[0] != "subjectId" || !m.Func.MustBePresent || m.Func.Issuer != "idp" {
		t.Errorf("designator in function match = %+v", m.Func)
	}
}

func TestParseTargetQualifiedOperator(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		target clause "1.2" versioning.>= resourceId
	}
}`)

	op := doc.Namespaces[0].Policies[0].Target.Clauses[0].Statements[0].Matches[0].Op.Operator
	if op.Operator != ">=" || len(op.NS) != 1 || op.NS[0] != "versioning" {
		t.Errorf("operator = %+v, want versioning.>=", op)
	}
}

func TestParseConditionExpression(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		condition stringOneAndOnly(subjectId[mustbepresent]) == "admin"
	}
}`)

	cond := doc.Namespaces[0].Policies[0].Condition
	infix, ok := cond.Expr.(*ast.InfixExpr)
	if !ok {
		t.Fatalf("expr = %T, want *InfixExpr", cond.Expr)
	}
	if infix.Op.Operator != "==" {
		t.Errorf("operator = %q, want ==", infix.Op.Operator)
	}
	call, ok := infix.Left.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("left = %T, want *FunctionCall", infix.Left)
	}
	if call.FullyQualifiedName() != "stringOneAndOnly" || len(call.Arguments) != 1 {
		t.Errorf("call = %+v", call)
	}
	ref, ok := call.Arguments[0].(*ast.AttributeRef)
	if !ok || !ref.Designator.MustBePresent {
		t.Errorf("argument = %+v, want mustbepresent attribute ref", call.Arguments[0])
	}
	lit, ok := infix.Right.(*ast.Literal)
	if !ok || lit.Value.StringVal != "admin" {
		t.Errorf("right = %+v, want literal admin", infix.Right)
	}
}

func TestParseConditionFunctionRef(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		condition anyOf(function[stringEqual], "a", subjectId)
	}
}`)

	call := doc.Namespaces[0].Policies[0].Condition.Expr.(*ast.FunctionCall)
	if len(call.Arguments) != 3 {
		t.Fatalf("arguments = %d, want 3", len(call.Arguments))
	}
	ref, ok := call.Arguments[0].(*ast.FunctionRef)
	if !ok || ref.FullyQualifiedName() != "stringEqual" {
		t.Errorf("argument 0 = %+v, want function[stringEqual]", call.Arguments[0])
	}
}

func TestParseConditionQualifiedOperator(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		condition subjectAge acme.utils.>= 21
	}
}`)

	infix := doc.Namespaces[0].Policies[0].Condition.Expr.(*ast.InfixExpr)
	if infix.Op.Operator != ">=" || len(infix.Op.NS) != 2 ||
		infix.Op.NS[0] != "acme" || infix.Op.NS[1] != "utils" {
		t.Errorf("operator = %+v, want acme.utils.>=", infix.Op)
	}
	lit := infix.Right.(*ast.Literal)
	if lit.Value.Kind != ast.ConstantInteger || lit.Value.IntVal != 21 {
		t.Errorf("right = %+v, want integer 21", lit.Value)
	}
}

func TestParseConditionParenthesized(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		condition (subjectAge + 1) < 21
	}
}`)

	infix := doc.Namespaces[0].Policies[0].Condition.Expr.(*ast.InfixExpr)
	if infix.Op.Operator != "<" {
		t.Fatalf("root operator = %q, want <", infix.Op.Operator)
	}
	inner, ok := infix.Left.(*ast.InfixExpr)
	if !ok || inner.Op.Operator != "+" {
		t.Errorf("left = %+v, want (subjectAge + 1)", infix.Left)
	}
}

func TestParseCustomTypedLiteral(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		condition subjectId == "123-45-6789":ssn
	}
}`)

	infix := doc.Namespaces[0].Policies[0].Condition.Expr.(*ast.InfixExpr)
	lit := infix.Right.(*ast.Literal)
	if lit.Value.Kind != ast.ConstantCustom || lit.Value.StringVal != "123-45-6789" {
		t.Errorf("literal = %+v", lit.Value)
	}
	if len(lit.Value.TypeName) != 1 || lit.Value.TypeName[0] != "ssn" {
		t.Errorf("type name = %v, want [ssn]", lit.Value.TypeName)
	}
}

func TestParsePrescriptions(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	policy p {
		apply denyOverrides
		on permit {
			obligation audit.logAccess {
				message = "access granted"
				user = subjectId
			}
			advice notify { channel = "mail" }
		}
	}
}`)

	prescs := doc.Namespaces[0].Policies[0].Prescriptions
	if len(prescs) != 1 {
		t.Fatalf("prescriptions = %d, want 1", len(prescs))
	}
	presc := prescs[0]
	if presc.Effect != ast.EffectPermit {
		t.Errorf("effect = %v, want permit", presc.Effect)
	}
	if len(presc.Expressions) != 2 {
		t.Fatalf("expressions = %d, want 2", len(presc.Expressions))
	}

	ob := presc.Expressions[0]
	if ob.Kind != ast.PrescriptionObligation || ob.ID != "audit.logAccess" {
		t.Errorf("obligation = %+v", ob)
	}
	if len(ob.Assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(ob.Assignments))
	}
	if ob.Assignments[0].DestinationID != "message" || ob.Assignments[0].Source.Value == nil {
		t.Errorf("assignment 0 = %+v, want literal source", ob.Assignments[0])
	}
	if ob.Assignments[1].Source.Attribute == nil {
		t.Errorf("assignment 1 = %+v, want attribute source", ob.Assignments[1])
	}

	ad := presc.Expressions[1]
	if ad.Kind != ast.PrescriptionAdvice || ad.ID != "notify" {
		t.Errorf("advice = %+v", ad)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	function bagSize = "urn:example:function:bag-size" : bag[anyAtomic] -> integer
	function always = "urn:example:function:always" : * -> boolean
	function pick = "urn:example:function:pick" : function anyAtomicOrBag bag[string] -> string
}`)

	fns := doc.Namespaces[0].Functions
	if len(fns) != 3 {
		t.Fatalf("functions = %d, want 3", len(fns))
	}

	bagSize := fns[0]
	if len(bagSize.Inputs.Args) != 1 || bagSize.Inputs.Args[0].Kind != ast.ArgAnyAtomicBag {
		t.Errorf("bagSize inputs = %+v", bagSize.Inputs)
	}
	if bagSize.Output.Kind != ast.ArgAtomic || bagSize.Output.Type != "integer" {
		t.Errorf("bagSize output = %+v", bagSize.Output)
	}

	if !fns[1].Inputs.Wildcard {
		t.Errorf("always inputs = %+v, want wildcard", fns[1].Inputs)
	}

	pick := fns[2]
	wantKinds := []ast.FunctionArgKind{ast.ArgFunction, ast.ArgAnyAtomicOrBag, ast.ArgAtomicBag}
	if len(pick.Inputs.Args) != len(wantKinds) {
		t.Fatalf("pick inputs = %d args, want %d", len(pick.Inputs.Args), len(wantKinds))
	}
	for i, k := range wantKinds {
		if pick.Inputs.Args[i].Kind != k {
			t.Errorf("pick arg %d kind = %v, want %v", i, pick.Inputs.Args[i].Kind, k)
		}
	}
	if pick.Inputs.Args[2].Type != "string" {
		t.Errorf("pick arg 2 type = %q, want string", pick.Inputs.Args[2].Type)
	}
}

func TestParseInfixDeclaration(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	infix comm allowbags (~) = {
		"urn:example:function:similar" : string string -> boolean
		"urn:example:function:similar-uri" : anyURI anyURI -> boolean
	}
	infix (<<) = {
		"urn:example:function:before" : time time -> boolean
	} inv >>
}`)

	ops := doc.Namespaces[0].InfixFns
	if len(ops) != 2 {
		t.Fatalf("infix declarations = %d, want 2", len(ops))
	}

	sim := ops[0]
	if sim.Operator != "~" || !sim.Commutative || !sim.AllowBags {
		t.Errorf("infix = %+v, want commutative allowbags ~", sim)
	}
	if len(sim.Signatures) != 2 {
		t.Fatalf("signatures = %d, want 2", len(sim.Signatures))
	}
	sig := sim.Signatures[0]
	if sig.FirstArg != "string" || sig.SecondArg != "string" || sig.Output != "boolean" ||
		sig.URI != "urn:example:function:similar" {
		t.Errorf("signature = %+v", sig)
	}

	before := ops[1]
	if before.Operator != "<<" || before.Inverse != ">>" || before.Commutative {
		t.Errorf("infix = %+v, want << with inverse >>", before)
	}
}

func TestParseOperatorImport(t *testing.T) {
	doc, _ := parseSource(t, `
namespace com.acme {
	import other.place.==
}`)

	imp := doc.Namespaces[0].Imports[0]
	want := []string{"other", "place", "=="}
	if imp.Wildcard || len(imp.Components) != len(want) {
		t.Fatalf("import = %+v, want components %v", imp, want)
	}
	for i := range want {
		if imp.Components[i] != want[i] {
			t.Errorf("component %d = %q, want %q", i, imp.Components[i], want[i])
		}
	}
}

func TestParseRegistersNamedElements(t *testing.T) {
	_, ctx := parseSource(t, `
namespace com.acme {
	policy visible {
		apply denyOverrides
		rule reachable { permit }
	}
	policy {
		apply denyOverrides
		rule hidden { permit }
	}
}`)

	src := []string{"com", "acme"}
	if _, err := ctx.LookupPolicy("visible", src); err != nil {
		t.Errorf("LookupPolicy(visible) error = %v", err)
	}
	if _, err := ctx.LookupRule("reachable", src, ast.Location{}); err != nil {
		t.Errorf("LookupRule(reachable) error = %v", err)
	}
	// rules inside anonymous policies are unreachable and stay unregistered
	if _, err := ctx.LookupRule("hidden", src, ast.Location{}); err == nil {
		t.Error("LookupRule(hidden) succeeded, want error")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want alfaErrors.ErrorType
	}{
		{
			name: "missing apply on policy",
			src:  `namespace x { policy p { rule { permit } } }`,
			want: alfaErrors.ErrorTypeMissingApply,
		},
		{
			name: "missing apply on policyset",
			src:  `namespace x { policyset ps { policy p { apply denyOverrides } } }`,
			want: alfaErrors.ErrorTypeMissingApply,
		},
		{
			name: "missing effect",
			src:  `namespace x { policy p { apply denyOverrides rule r { target clause subjectId == "a" } } }`,
			want: alfaErrors.ErrorTypeMissingEffect,
		},
		{
			name: "duplicate effect",
			src:  `namespace x { policy p { apply denyOverrides rule r { permit deny } } }`,
			want: alfaErrors.ErrorTypeDuplicateEffect,
		},
		{
			name: "duplicate target",
			src: `namespace x { policy p { apply denyOverrides
				target clause subjectId == "a"
				target clause subjectId == "b" } }`,
			want: alfaErrors.ErrorTypeDuplicateTarget,
		},
		{
			name: "duplicate condition",
			src: `namespace x { policy p { apply denyOverrides
				condition true
				condition false } }`,
			want: alfaErrors.ErrorTypeDuplicateCondition,
		},
		{
			name: "duplicate infix modifier",
			src:  `namespace x { infix comm comm (~) = { "u" : string string -> boolean } }`,
			want: alfaErrors.ErrorTypeDuplicateModifier,
		},
		{
			name: "commutative operator with inverse",
			src:  `namespace x { infix comm (~) = { "u" : string string -> boolean } inv == }`,
			want: alfaErrors.ErrorTypeCommutativeInverse,
		},
		{
			name: "attribute defines type twice",
			src: `namespace x { attribute a {
				type = string
				type = integer
				id = "urn:a" } }`,
			want: alfaErrors.ErrorTypeSyntax,
		},
		{
			name: "declaration outside namespace",
			src:  `policy p { apply denyOverrides }`,
			want: alfaErrors.ErrorTypeSyntax,
		},
		{
			name: "unterminated namespace",
			src:  `namespace x { policy p { apply denyOverrides }`,
			want: alfaErrors.ErrorTypeSyntax,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseErrorType(t, tc.src); got != tc.want {
				t.Errorf("error type = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseMultiCombinesDocuments(t *testing.T) {
	ctx := compiler.New(compiler.DefaultConfig())
	p := NewParser(ctx)

	doc1, err := p.ParseBytes("a.alfa", []byte(`namespace a { policy p1 { apply denyOverrides } }`))
	if err != nil {
		t.Fatalf("parse a.alfa: %v", err)
	}
	doc2, err := p.ParseBytes("b.alfa", []byte(`namespace b { policyset ps { apply denyOverrides a.p1 } }`))
	if err != nil {
		t.Fatalf("parse b.alfa: %v", err)
	}

	var coll ast.Collection
	coll.Add(doc1)
	coll.Add(doc2)
	if n := len(coll.Policies()); n != 1 {
		t.Errorf("collection policies = %d, want 1", n)
	}
	if n := len(coll.PolicySets()); n != 1 {
		t.Errorf("collection policysets = %d, want 1", n)
	}
}
