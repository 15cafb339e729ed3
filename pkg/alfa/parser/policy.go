package parser

import (
	"strconv"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// parsePolicyID parses the optional name and URI of a policy or
// policy set declaration, stopping at the opening brace.
func (p *fileParser) parsePolicyID() (ast.PolicyID, *alfaErrors.Error) {
	if p.peek(0).Kind != tokIdent {
		return ast.PolicyID{Kind: ast.PolicyNoName}, nil
	}
	name := p.next()
	if t := p.peek(0); t.Kind == tokOperator && t.Text == "=" {
		p.next()
		uri, err := p.expect(tokString)
		if err != nil {
			return ast.PolicyID{}, err
		}
		return ast.PolicyID{Kind: ast.PolicyNamedWithID, Name: name.Text, URI: uri.Text}, nil
	}
	return ast.PolicyID{Kind: ast.PolicyNamed, Name: name.Text}, nil
}

func slotForID(id ast.PolicyID) *ast.NameSlot {
	if id.Kind == ast.PolicyNoName {
		return ast.NewNameSlot()
	}
	return ast.NewNamedSlot(id.Name)
}

// parsePolicy parses "policy [name [= \"uri\"]] { statements }".
// parentPath is the policy nesting path of the parent; register is
// false when any ancestor is anonymous, since an unreachable name must
// not be resolvable.
func (p *fileParser) parsePolicy(nsPath []string, parentPath ast.GenName, desc string, register bool) (*ast.Policy, *alfaErrors.Error) {
	kw, err := p.expectKeyword("policy")
	if err != nil {
		return nil, err
	}
	id, err := p.parsePolicyID()
	if err != nil {
		return nil, err
	}
	policyNS := parentPath.Clone()
	policyNS.PushName(slotForID(id))
	doRegister := id.Kind != ast.PolicyNoName && register

	pol := &ast.Policy{
		ID:          id,
		NS:          nsPath,
		PolicyNS:    policyNS,
		Description: desc,
		Loc:         kw.Loc,
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	var sawApply bool
	for {
		t := p.peek(0)
		if t.Kind == tokRBrace {
			p.next()
			break
		}
		if t.Kind == tokEOF {
			return nil, p.syntaxErrorf(t.Loc, "unexpected end of file inside policy")
		}
		if t.Kind != tokIdent {
			return nil, p.syntaxErrorf(t.Loc, "expected a policy statement, found %s", describeToken(t))
		}
		stmtDesc := p.lastComment
		p.lastComment = ""
		switch t.Text {
		case "apply":
			p.next()
			parts, loc, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			pol.Apply = ast.CombiningAlg{ID: strings.Join(parts, "."), Loc: loc}
			sawApply = true
		case "target":
			if pol.Target != nil {
				return nil, p.syntaxErrorf(t.Loc, "policy declares two targets").WithType(alfaErrors.ErrorTypeDuplicateTarget)
			}
			target, err := p.parseTarget(nsPath)
			if err != nil {
				return nil, err
			}
			pol.Target = target
		case "condition":
			if pol.Condition != nil {
				return nil, p.syntaxErrorf(t.Loc, "policy declares two conditions").WithType(alfaErrors.ErrorTypeDuplicateCondition)
			}
			cond, err := p.parseCondition(nsPath)
			if err != nil {
				return nil, err
			}
			pol.Condition = cond
		case "rule":
			rule, err := p.parseRule(nsPath, policyNS, stmtDesc)
			if err != nil {
				return nil, err
			}
			if rule.ID != "" && doRegister {
				if rerr := p.ctx.RegisterRule(rule); rerr != nil {
					return nil, rerr
				}
			}
			pol.Rules = append(pol.Rules, ast.RuleEntry{Def: rule})
		case "on":
			presc, err := p.parsePrescription(nsPath)
			if err != nil {
				return nil, err
			}
			pol.Prescriptions = append(pol.Prescriptions, *presc)
		default:
			// a bare dotted name references a rule defined elsewhere
			parts, loc, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			refNS, refID := splitDotted(parts)
			pol.Rules = append(pol.Rules, ast.RuleEntry{Ref: &ast.RuleReference{
				ID:  refID,
				NS:  refNS,
				Loc: loc,
			}})
		}
	}
	if !sawApply {
		return nil, p.syntaxErrorf(kw.Loc,
			"policies must have an apply statement").WithType(alfaErrors.ErrorTypeMissingApply)
	}
	return pol, nil
}

// parsePolicySet parses "policyset [name [= \"uri\"]] { statements }".
func (p *fileParser) parsePolicySet(nsPath []string, parentPath ast.GenName, desc string, register bool) (*ast.PolicySet, *alfaErrors.Error) {
	kw, err := p.expectKeyword("policyset")
	if err != nil {
		return nil, err
	}
	id, err := p.parsePolicyID()
	if err != nil {
		return nil, err
	}
	policyNS := parentPath.Clone()
	policyNS.PushName(slotForID(id))
	doRegister := id.Kind != ast.PolicyNoName && register

	ps := &ast.PolicySet{
		ID:          id,
		NS:          nsPath,
		PolicyNS:    policyNS,
		Description: desc,
		Loc:         kw.Loc,
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	var sawApply bool
	for {
		t := p.peek(0)
		if t.Kind == tokRBrace {
			p.next()
			break
		}
		if t.Kind == tokEOF {
			return nil, p.syntaxErrorf(t.Loc, "unexpected end of file inside policyset")
		}
		if t.Kind != tokIdent {
			return nil, p.syntaxErrorf(t.Loc, "expected a policyset statement, found %s", describeToken(t))
		}
		stmtDesc := p.lastComment
		p.lastComment = ""
		switch t.Text {
		case "apply":
			p.next()
			parts, loc, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			ps.Apply = ast.CombiningAlg{ID: strings.Join(parts, "."), Loc: loc}
			sawApply = true
		case "target":
			if ps.Target != nil {
				return nil, p.syntaxErrorf(t.Loc, "policyset declares two targets").WithType(alfaErrors.ErrorTypeDuplicateTarget)
			}
			target, err := p.parseTarget(nsPath)
			if err != nil {
				return nil, err
			}
			ps.Target = target
		case "condition":
			if ps.Condition != nil {
				return nil, p.syntaxErrorf(t.Loc, "policyset declares two conditions").WithType(alfaErrors.ErrorTypeDuplicateCondition)
			}
			cond, err := p.parseCondition(nsPath)
			if err != nil {
				return nil, err
			}
			ps.Condition = cond
		case "policy":
			child, err := p.parsePolicy(nsPath, policyNS, stmtDesc, doRegister)
			if err != nil {
				return nil, err
			}
			ps.Policies = append(ps.Policies, ast.PolicyEntry{Policy: child})
		case "policyset":
			child, err := p.parsePolicySet(nsPath, policyNS, stmtDesc, doRegister)
			if err != nil {
				return nil, err
			}
			ps.Policies = append(ps.Policies, ast.PolicyEntry{PolicySet: child})
		case "on":
			presc, err := p.parsePrescription(nsPath)
			if err != nil {
				return nil, err
			}
			ps.Prescriptions = append(ps.Prescriptions, *presc)
		default:
			// a bare dotted name references a policy or policyset
			parts, loc, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			refNS, refID := splitDotted(parts)
			ps.Policies = append(ps.Policies, ast.PolicyEntry{Ref: &ast.PolicyReference{
				ID:  refID,
				NS:  refNS,
				Loc: loc,
			}})
		}
	}
	if !sawApply {
		return nil, p.syntaxErrorf(kw.Loc,
			"policysets must have an apply statement").WithType(alfaErrors.ErrorTypeMissingApply)
	}
	return ps, nil
}

// parseRule parses "rule [name] { permit|deny statements }".
func (p *fileParser) parseRule(nsPath []string, policyNS ast.GenName, desc string) (*ast.RuleDef, *alfaErrors.Error) {
	kw, err := p.expectKeyword("rule")
	if err != nil {
		return nil, err
	}
	rule := &ast.RuleDef{
		NS:          nsPath,
		PolicyNS:    policyNS,
		Description: desc,
		Loc:         kw.Loc,
	}
	if t := p.peek(0); t.Kind == tokIdent {
		rule.ID = p.next().Text
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	var sawEffect bool
	for {
		t := p.peek(0)
		if t.Kind == tokRBrace {
			p.next()
			break
		}
		if t.Kind == tokEOF {
			return nil, p.syntaxErrorf(t.Loc, "unexpected end of file inside rule")
		}
		if t.Kind != tokIdent {
			return nil, p.syntaxErrorf(t.Loc, "expected a rule statement, found %s", describeToken(t))
		}
		p.lastComment = ""
		switch t.Text {
		case "permit", "deny":
			if sawEffect {
				return nil, p.syntaxErrorf(t.Loc, "rule declares two effects").WithType(alfaErrors.ErrorTypeDuplicateEffect)
			}
			sawEffect = true
			p.next()
			if t.Text == "permit" {
				rule.Effect = ast.EffectPermit
			} else {
				rule.Effect = ast.EffectDeny
			}
		case "target":
			if rule.Target != nil {
				return nil, p.syntaxErrorf(t.Loc, "rule declares two targets").WithType(alfaErrors.ErrorTypeDuplicateTarget)
			}
			target, err := p.parseTarget(nsPath)
			if err != nil {
				return nil, err
			}
			rule.Target = target
		case "condition":
			if rule.Condition != nil {
				return nil, p.syntaxErrorf(t.Loc, "rule declares two conditions").WithType(alfaErrors.ErrorTypeDuplicateCondition)
			}
			cond, err := p.parseCondition(nsPath)
			if err != nil {
				return nil, err
			}
			rule.Condition = cond
		case "on":
			presc, err := p.parsePrescription(nsPath)
			if err != nil {
				return nil, err
			}
			rule.Prescriptions = append(rule.Prescriptions, *presc)
		default:
			return nil, p.syntaxErrorf(t.Loc, "unexpected '%s' inside rule", t.Text)
		}
	}
	if !sawEffect {
		return nil, p.syntaxErrorf(kw.Loc,
			"rules must declare permit or deny").WithType(alfaErrors.ErrorTypeMissingEffect)
	}
	return rule, nil
}

// parsePrescription parses
// "on permit|deny { obligation|advice id { attr = source ... } ... }".
func (p *fileParser) parsePrescription(nsPath []string) (*ast.Prescription, *alfaErrors.Error) {
	kw, err := p.expectKeyword("on")
	if err != nil {
		return nil, err
	}
	effectTok := p.next()
	presc := &ast.Prescription{NS: nsPath, Loc: kw.Loc}
	switch {
	case effectTok.Kind == tokIdent && effectTok.Text == "permit":
		presc.Effect = ast.EffectPermit
	case effectTok.Kind == tokIdent && effectTok.Text == "deny":
		presc.Effect = ast.EffectDeny
	default:
		return nil, p.syntaxErrorf(effectTok.Loc, "expected 'permit' or 'deny', found %s", describeToken(effectTok))
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	for {
		t := p.peek(0)
		if t.Kind == tokRBrace {
			p.next()
			return presc, nil
		}
		if t.Kind != tokIdent || (t.Text != "obligation" && t.Text != "advice") {
			return nil, p.syntaxErrorf(t.Loc, "expected 'obligation' or 'advice', found %s", describeToken(t))
		}
		p.next()
		expr := ast.PrescriptionExpr{Loc: t.Loc}
		if t.Text == "advice" {
			expr.Kind = ast.PrescriptionAdvice
		} else {
			expr.Kind = ast.PrescriptionObligation
		}
		parts, _, err := p.dottedName()
		if err != nil {
			return nil, err
		}
		expr.ID = strings.Join(parts, ".")
		if _, err := p.expect(tokLBrace); err != nil {
			return nil, err
		}
		for p.peek(0).Kind != tokRBrace {
			destParts, _, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectOperator("="); err != nil {
				return nil, err
			}
			assign := ast.AttributeAssignment{DestinationID: strings.Join(destParts, ".")}
			if src := p.peek(0); src.Kind == tokIdent && src.Text != "true" && src.Text != "false" {
				designator, err := p.parseDesignator()
				if err != nil {
					return nil, err
				}
				assign.Source = ast.AssignmentSource{Attribute: designator}
			} else {
				con, err := p.parseConstant()
				if err != nil {
					return nil, err
				}
				assign.Source = ast.AssignmentSource{Value: &con}
			}
			expr.Assignments = append(expr.Assignments, assign)
		}
		p.next() // }
		presc.Expressions = append(presc.Expressions, expr)
	}
}

// parseDesignator parses a dotted attribute name with an optional
// "[mustbepresent issuer=\"...\"]" options block.
func (p *fileParser) parseDesignator() (*ast.AttributeDesignator, *alfaErrors.Error) {
	parts, loc, err := p.dottedName()
	if err != nil {
		return nil, err
	}
	d := &ast.AttributeDesignator{Attribute: parts, Loc: loc}
	if p.peek(0).Kind != tokLBracket {
		return d, nil
	}
	p.next()
	for p.peek(0).Kind != tokRBracket {
		opt, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		switch opt.Text {
		case "mustbepresent":
			d.MustBePresent = true
		case "issuer":
			if _, err := p.expectOperator("="); err != nil {
				return nil, err
			}
			issuer, err := p.expect(tokString)
			if err != nil {
				return nil, err
			}
			d.Issuer = issuer.Text
		default:
			return nil, p.syntaxErrorf(opt.Loc, "unknown designator option '%s'", opt.Text)
		}
	}
	p.next() // ]
	return d, nil
}

// parseConstant parses a literal: a quoted string (optionally typed via
// "value":typename), a number, or a boolean.
func (p *fileParser) parseConstant() (ast.Constant, *alfaErrors.Error) {
	t := p.next()
	switch t.Kind {
	case tokString:
		if p.peek(0).Kind == tokColon {
			p.next()
			parts, _, err := p.dottedName()
			if err != nil {
				return ast.Constant{}, err
			}
			return ast.Constant{
				Kind:      ast.ConstantCustom,
				StringVal: t.Text,
				TypeName:  parts,
				Loc:       t.Loc,
			}, nil
		}
		return ast.Constant{Kind: ast.ConstantString, StringVal: t.Text, Loc: t.Loc}, nil
	case tokNumber:
		if strings.Contains(t.Text, ".") {
			f, err := strconv.ParseFloat(t.Text, 64)
			if err != nil {
				return ast.Constant{}, p.syntaxErrorf(t.Loc, "invalid number '%s'", t.Text)
			}
			return ast.Constant{Kind: ast.ConstantDouble, DoubleVal: f, Loc: t.Loc}, nil
		}
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return ast.Constant{}, p.syntaxErrorf(t.Loc, "invalid number '%s'", t.Text)
		}
		return ast.Constant{Kind: ast.ConstantInteger, IntVal: n, Loc: t.Loc}, nil
	case tokIdent:
		switch t.Text {
		case "true":
			return ast.Constant{Kind: ast.ConstantBoolean, BoolVal: true, Loc: t.Loc}, nil
		case "false":
			return ast.Constant{Kind: ast.ConstantBoolean, BoolVal: false, Loc: t.Loc}, nil
		}
	}
	return ast.Constant{}, p.syntaxErrorf(t.Loc, "expected a literal, found %s", describeToken(t))
}

// splitDotted separates a dotted reference into its namespace prefix
// and final element name.
func splitDotted(parts []string) ([]string, string) {
	if len(parts) == 0 {
		return nil, ""
	}
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// isLiteralStart reports whether a token can begin a literal constant.
func isLiteralStart(t token) bool {
	switch t.Kind {
	case tokString, tokNumber:
		return true
	case tokIdent:
		return t.Text == "true" || t.Text == "false"
	}
	return false
}
