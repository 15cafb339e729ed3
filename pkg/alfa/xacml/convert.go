package xacml

import (
	"fmt"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// asConvertError normalizes an error from the ast package into a typed
// compile error.
func asConvertError(err error) *alfaErrors.Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*alfaErrors.Error); ok {
		return e
	}
	return alfaErrors.Newf(alfaErrors.ErrorTypeConvert, "%v", err)
}

// PolicySet lowers a policyset into a XACML PolicySet. A policyset
// with a condition is first rewritten into a condition-free wrapper.
func (cv *Converter) PolicySet(p *ast.PolicySet) (*PolicySet, *alfaErrors.Error) {
	if p.Condition != nil {
		rewritten, err := p.Decondition()
		if err != nil {
			return nil, asConvertError(err)
		}
		return cv.PolicySet(rewritten)
	}
	if err := p.FinalizeID(cv.ctx); err != nil {
		return nil, asConvertError(err)
	}
	combinator, cerr := cv.ctx.LookupPolicyCombinator(p.Apply.ID, p.NS)
	if cerr != nil {
		return nil, cerr
	}
	target, terr := cv.optionalTarget(p.Target)
	if terr != nil {
		return nil, terr
	}

	var children []PolicyEntry
	for _, entry := range p.Policies {
		switch {
		case entry.Ref != nil:
			child, err := cv.policyReference(entry.Ref, p.NS)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case entry.PolicySet != nil:
			child, err := cv.PolicySet(entry.PolicySet)
			if err != nil {
				return nil, err
			}
			children = append(children, PolicyEntry{PolicySet: child})
		case entry.Policy != nil:
			child, err := cv.PolicyEntry(entry.Policy)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}

	prescriptions, perr := cv.prescriptions(p.Prescriptions)
	if perr != nil {
		return nil, perr
	}
	filename, _ := p.GetFilename()
	return &PolicySet{
		ID:            p.GetID(cv.ctx),
		Filename:      filename,
		CombiningAlg:  combinator.URI,
		Description:   p.Description,
		Target:        target,
		Children:      children,
		Prescriptions: prescriptions,
	}, nil
}

// policyReference resolves a bare policy reference against both the
// policyset and policy namespaces. A referenced policy that carries a
// condition is emitted as a PolicySetIdReference, since conversion
// rewrites it into a policyset.
func (cv *Converter) policyReference(ref *ast.PolicyReference, sourceNS []string) (PolicyEntry, *alfaErrors.Error) {
	fq := strings.Join(append(append([]string{}, ref.NS...), ref.ID), ".")
	if ps, err := cv.ctx.LookupPolicySet(fq, sourceNS); err == nil {
		return PolicyEntry{PolicySetIDRef: ps.GetID(cv.ctx)}, nil
	}
	pol, err := cv.ctx.LookupPolicy(fq, sourceNS)
	if err != nil {
		return PolicyEntry{}, err.WithSuggestion(
			fmt.Sprintf("no policy or policyset named '%s' is defined", fq))
	}
	if pol.Condition != nil {
		return PolicyEntry{PolicySetIDRef: pol.GetID(cv.ctx)}, nil
	}
	return PolicyEntry{PolicyIDRef: pol.GetID(cv.ctx)}, nil
}

// PolicyEntry lowers a policy into either a Policy or, when it carries
// a condition, a deconditioned PolicySet.
func (cv *Converter) PolicyEntry(p *ast.Policy) (PolicyEntry, *alfaErrors.Error) {
	if p.Condition == nil {
		pol, err := cv.Policy(p)
		if err != nil {
			return PolicyEntry{}, err
		}
		return PolicyEntry{Policy: pol}, nil
	}
	ps, err := cv.PolicySetFromPolicy(p)
	if err != nil {
		return PolicyEntry{}, err
	}
	return PolicyEntry{PolicySet: ps}, nil
}

// PolicySetFromPolicy rewrites a conditioned policy into a wrapper
// policyset and lowers that.
func (cv *Converter) PolicySetFromPolicy(p *ast.Policy) (*PolicySet, *alfaErrors.Error) {
	if p.Condition == nil {
		return nil, alfaErrors.New(alfaErrors.ErrorTypePolicyNoCondition,
			"Only policies with conditions are rewritten as policysets", p.Loc)
	}
	rewritten, err := p.Decondition()
	if err != nil {
		return nil, asConvertError(err)
	}
	return cv.PolicySet(rewritten)
}

// Policy lowers a condition-free policy into a XACML Policy.
func (cv *Converter) Policy(p *ast.Policy) (*Policy, *alfaErrors.Error) {
	if p.Condition != nil {
		return nil, alfaErrors.New(alfaErrors.ErrorTypePolicyHasCondition,
			"Policies with conditions cannot be converted directly; rewrite as a policyset", p.Loc)
	}
	if err := p.FinalizeID(cv.ctx); err != nil {
		return nil, asConvertError(err)
	}
	combinator, cerr := cv.ctx.LookupRuleCombinator(p.Apply.ID, p.NS, p.Apply.Loc)
	if cerr != nil {
		return nil, cerr
	}
	target, terr := cv.optionalTarget(p.Target)
	if terr != nil {
		return nil, terr
	}

	var rules []Rule
	for _, entry := range p.Rules {
		switch {
		case entry.Ref != nil:
			fq := strings.Join(append(append([]string{}, entry.Ref.NS...), entry.Ref.ID), ".")
			resolved, err := cv.ctx.LookupRule(fq, p.NS, entry.Ref.Loc)
			if err != nil {
				return nil, err
			}
			rule, rerr := cv.rule(resolved)
			if rerr != nil {
				return nil, rerr
			}
			// only the defining policy may use the plain rule path
			rule.ID += fmt.Sprintf("#rule_%d", cv.ctx.NextRuleID(strings.Join(resolved.NS, ".")))
			rules = append(rules, rule)
		case entry.Def != nil:
			rule, rerr := cv.rule(entry.Def)
			if rerr != nil {
				return nil, rerr
			}
			rules = append(rules, rule)
		}
	}

	prescriptions, perr := cv.prescriptions(p.Prescriptions)
	if perr != nil {
		return nil, perr
	}
	filename, _ := p.GetFilename()
	return &Policy{
		ID:            p.GetID(cv.ctx),
		Filename:      filename,
		CombiningAlg:  combinator.URI,
		Description:   p.Description,
		Target:        target,
		Rules:         rules,
		Prescriptions: prescriptions,
	}, nil
}

// rule lowers a rule definition.
func (cv *Converter) rule(r *ast.RuleDef) (Rule, *alfaErrors.Error) {
	id, err := r.GetID(cv.ctx)
	if err != nil {
		return Rule{}, asConvertError(err)
	}
	target, terr := cv.optionalTarget(r.Target)
	if terr != nil {
		return Rule{}, terr
	}
	var condition *Condition
	if r.Condition != nil {
		cond, cerr := cv.condition(r.Condition)
		if cerr != nil {
			return Rule{}, cerr
		}
		condition = cond
	}
	prescriptions, perr := cv.prescriptions(r.Prescriptions)
	if perr != nil {
		return Rule{}, perr
	}
	return Rule{
		ID:            id,
		Description:   r.Description,
		Effect:        r.Effect,
		Target:        target,
		Condition:     condition,
		Prescriptions: prescriptions,
	}, nil
}

// optionalTarget lowers a target, treating a missing one as an empty
// match-anything target.
func (cv *Converter) optionalTarget(t *ast.Target) (Target, *alfaErrors.Error) {
	if t == nil {
		return Target{}, nil
	}
	return cv.target(t)
}

// prescriptions flattens and lowers the obligation/advice blocks of a
// rule, policy, or policyset.
func (cv *Converter) prescriptions(ps []ast.Prescription) ([]PrescriptionExpr, *alfaErrors.Error) {
	var out []PrescriptionExpr
	for i := range ps {
		exprs, err := cv.prescription(&ps[i])
		if err != nil {
			return nil, err
		}
		out = append(out, exprs...)
	}
	return out, nil
}

// prescription lowers one `on permit/deny` block into its obligation
// and advice expressions.
func (cv *Converter) prescription(p *ast.Prescription) ([]PrescriptionExpr, *alfaErrors.Error) {
	out := make([]PrescriptionExpr, 0, len(p.Expressions))
	for _, e := range p.Expressions {
		var uri string
		if e.Kind == ast.PrescriptionAdvice {
			advice, err := cv.ctx.LookupAdvice(e.ID, p.NS)
			if err != nil {
				return nil, err
			}
			uri = advice.URI
		} else {
			obligation, err := cv.ctx.LookupObligation(e.ID, p.NS)
			if err != nil {
				return nil, err
			}
			uri = obligation.URI
		}

		assignments := make([]AttributeAssignment, 0, len(e.Assignments))
		for _, a := range e.Assignments {
			destAttr, err := cv.ctx.LookupAttribute(a.DestinationID, p.NS)
			if err != nil {
				return nil, err
			}
			destCat, err := cv.ctx.LookupCategory(destAttr.Category, p.NS)
			if err != nil {
				return nil, err
			}
			assignment := AttributeAssignment{
				AttributeID: destAttr.URI,
				Category:    destCat.URI,
			}
			switch {
			case a.Source.Attribute != nil:
				designator, derr := cv.designator(a.Source.Attribute, p.NS)
				if derr != nil {
					return nil, derr
				}
				assignment.Designator = designator
			case a.Source.Value != nil:
				lit, lerr := cv.ctx.ConstantToTypedLiteral(*a.Source.Value, p.NS)
				if lerr != nil {
					return nil, lerr
				}
				assignment.Value = &AttributeValue{TypeURI: lit.TypeURI, Value: lit.Value}
			}
			assignments = append(assignments, assignment)
		}
		out = append(out, PrescriptionExpr{
			Kind:        e.Kind,
			ID:          uri,
			FulfillOn:   p.Effect,
			Assignments: assignments,
		})
	}
	return out, nil
}
