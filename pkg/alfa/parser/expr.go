package parser

import (
	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// parseTarget parses "target" followed by one or more clauses:
//
//	target
//	  clause m1 and m2 or m3
//	  clause m4
//
// Clauses combine conjunctively. Within a clause, "or" separates
// conjunctive groups and "and" separates matches inside a group.
func (p *fileParser) parseTarget(nsPath []string) (*ast.Target, *alfaErrors.Error) {
	kw, err := p.expectKeyword("target")
	if err != nil {
		return nil, err
	}
	target := &ast.Target{NS: nsPath, Loc: kw.Loc}
	for {
		t := p.peek(0)
		if t.Kind != tokIdent || t.Text != "clause" {
			break
		}
		p.next()
		var dis ast.DisjunctiveSeq
		var conj ast.ConjunctiveSeq
		m, err := p.parseMatch()
		if err != nil {
			return nil, err
		}
		conj.Matches = append(conj.Matches, m)
		for {
			sep := p.peek(0)
			if sep.Kind != tokIdent || (sep.Text != "and" && sep.Text != "or") {
				break
			}
			p.next()
			if sep.Text == "or" {
				dis.Statements = append(dis.Statements, conj)
				conj = ast.ConjunctiveSeq{}
			}
			m, err := p.parseMatch()
			if err != nil {
				return nil, err
			}
			conj.Matches = append(conj.Matches, m)
		}
		dis.Statements = append(dis.Statements, conj)
		target.Clauses = append(target.Clauses, dis)
	}
	if len(target.Clauses) == 0 {
		return nil, p.syntaxErrorf(kw.Loc, "targets require at least one clause")
	}
	return target, nil
}

// parseMatch parses a single target match in one of three forms:
// "literal OP attribute", "attribute OP literal", or
// "fn(literal, attribute)".
func (p *fileParser) parseMatch() (ast.Match, *alfaErrors.Error) {
	t := p.peek(0)
	if isLiteralStart(t) {
		lit, err := p.parseConstant()
		if err != nil {
			return ast.Match{}, err
		}
		op, err := p.parseMatchOperator()
		if err != nil {
			return ast.Match{}, err
		}
		d, err := p.parseDesignator()
		if err != nil {
			return ast.Match{}, err
		}
		return ast.Match{Op: &ast.MatchOperation{
			Attribute:     d.Attribute,
			Operator:      *op,
			Literal:       lit,
			Issuer:        d.Issuer,
			MustBePresent: d.MustBePresent,
			Loc:           t.Loc,
		}}, nil
	}
	if t.Kind != tokIdent {
		return ast.Match{}, p.syntaxErrorf(t.Loc, "expected a target match, found %s", describeToken(t))
	}
	if p.aheadIsCall() {
		parts, loc, err := p.dottedName()
		if err != nil {
			return ast.Match{}, err
		}
		if _, err := p.expect(tokLParen); err != nil {
			return ast.Match{}, err
		}
		lit, err := p.parseConstant()
		if err != nil {
			return ast.Match{}, err
		}
		if _, err := p.expect(tokComma); err != nil {
			return ast.Match{}, err
		}
		d, err := p.parseDesignator()
		if err != nil {
			return ast.Match{}, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return ast.Match{}, err
		}
		return ast.Match{Func: &ast.MatchFunction{
			FunctionID:    parts,
			Literal:       lit,
			Attribute:     d.Attribute,
			Issuer:        d.Issuer,
			MustBePresent: d.MustBePresent,
			Loc:           loc,
		}}, nil
	}
	d, err := p.parseDesignator()
	if err != nil {
		return ast.Match{}, err
	}
	op, err := p.parseMatchOperator()
	if err != nil {
		return ast.Match{}, err
	}
	lit, err := p.parseConstant()
	if err != nil {
		return ast.Match{}, err
	}
	return ast.Match{Op: &ast.MatchOperation{
		Attribute:     d.Attribute,
		Operator:      *op,
		Literal:       lit,
		Reversed:      true,
		Issuer:        d.Issuer,
		MustBePresent: d.MustBePresent,
		Loc:           t.Loc,
	}}, nil
}

// parseMatchOperator parses an operator symbol with an optional dotted
// namespace qualifier, e.g. "==" or "versioning.>=".
func (p *fileParser) parseMatchOperator() (*ast.Operator, *alfaErrors.Error) {
	loc := p.peek(0).Loc
	var ns []string
	for p.peek(0).Kind == tokIdent {
		id := p.next()
		ns = append(ns, id.Text)
		if _, err := p.expect(tokDot); err != nil {
			return nil, err
		}
	}
	opTok := p.next()
	if opTok.Kind != tokOperator {
		return nil, p.syntaxErrorf(opTok.Loc, "expected an operator, found %s", describeToken(opTok))
	}
	return &ast.Operator{NS: ns, Operator: opTok.Text, Loc: loc}, nil
}

// parseCondition parses "condition" followed by a boolean expression.
func (p *fileParser) parseCondition(nsPath []string) (*ast.Condition, *alfaErrors.Error) {
	kw, err := p.expectKeyword("condition")
	if err != nil {
		return nil, err
	}
	expr, err := p.parseCondExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Condition{Expr: expr, NS: nsPath, Loc: kw.Loc}, nil
}

// parseCondExpr parses a flat atom/operator sequence and assembles it
// into a tree according to operator binding power.
func (p *fileParser) parseCondExpr() (ast.CondExpression, *alfaErrors.Error) {
	loc := p.peek(0).Loc
	var items []ast.CondItem
	for {
		atom, err := p.parseCondAtom()
		if err != nil {
			return nil, err
		}
		items = append(items, ast.CondItem{Atom: atom})
		op, ok, err := p.maybeCondOperator()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, ast.CondItem{Op: op})
	}
	expr, err := ast.BuildExpression(items, loc)
	if err != nil {
		if perr, ok := err.(*alfaErrors.Error); ok {
			return nil, perr
		}
		return nil, alfaErrors.Newf(alfaErrors.ErrorTypeConvert, "%v", err)
	}
	return expr, nil
}

// maybeCondOperator consumes the next infix operator if one follows,
// including namespace-qualified forms like "versioning.>=". Anything
// else is left in place for the enclosing statement.
func (p *fileParser) maybeCondOperator() (*ast.Operator, bool, *alfaErrors.Error) {
	if t := p.peek(0); t.Kind == tokOperator {
		p.next()
		return &ast.Operator{Operator: t.Text, Loc: t.Loc}, true, nil
	}
	k := 0
	for p.peek(k).Kind == tokIdent && p.peek(k+1).Kind == tokDot {
		k += 2
	}
	if k == 0 || p.peek(k).Kind != tokOperator {
		return nil, false, nil
	}
	loc := p.peek(0).Loc
	var ns []string
	for p.peek(0).Kind == tokIdent {
		ns = append(ns, p.next().Text)
		p.next() // .
	}
	opTok := p.next()
	return &ast.Operator{NS: ns, Operator: opTok.Text, Loc: loc}, true, nil
}

// parseCondAtom parses one operand of a condition expression: a
// parenthesized subexpression, a literal, a function reference, a
// function call, or an attribute reference.
func (p *fileParser) parseCondAtom() (ast.CondExpression, *alfaErrors.Error) {
	t := p.peek(0)
	switch {
	case t.Kind == tokLParen:
		p.next()
		expr, err := p.parseCondExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case isLiteralStart(t):
		c, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Value: c}, nil
	case t.Kind == tokIdent && t.Text == "function" && p.peek(1).Kind == tokLBracket:
		p.next()
		p.next()
		parts, _, err := p.dottedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		return &ast.FunctionRef{Identifier: parts}, nil
	case t.Kind == tokIdent:
		if p.aheadIsCall() {
			parts, _, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			p.next() // (
			var args []ast.CondExpression
			if p.peek(0).Kind != tokRParen {
				for {
					arg, err := p.parseCondExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.peek(0).Kind != tokComma {
						break
					}
					p.next()
				}
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return &ast.FunctionCall{Identifier: parts, Arguments: args}, nil
		}
		d, err := p.parseDesignator()
		if err != nil {
			return nil, err
		}
		return &ast.AttributeRef{Designator: *d}, nil
	}
	return nil, p.syntaxErrorf(t.Loc, "expected an expression, found %s", describeToken(t))
}

// aheadIsCall reports whether the upcoming tokens are a dotted name
// directly followed by an opening parenthesis.
func (p *fileParser) aheadIsCall() bool {
	k := 0
	for p.peek(k).Kind == tokIdent && p.peek(k+1).Kind == tokDot {
		k += 2
	}
	return p.peek(k).Kind == tokIdent && p.peek(k+1).Kind == tokLParen
}
