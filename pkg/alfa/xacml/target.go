package xacml

import (
	"fmt"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// target lowers an ALFA target: clauses become AnyOf elements, their
// conjunctive groups become AllOf elements.
func (cv *Converter) target(t *ast.Target) (Target, *alfaErrors.Error) {
	var out Target
	for _, clause := range t.Clauses {
		var anyOf AnyOf
		for _, stmt := range clause.Statements {
			var allOf AllOf
			for i := range stmt.Matches {
				m, err := cv.match(&stmt.Matches[i], t.NS)
				if err != nil {
					return Target{}, err
				}
				allOf.Matches = append(allOf.Matches, m)
			}
			anyOf.AllOfs = append(anyOf.AllOfs, allOf)
		}
		out.AnyOfs = append(out.AnyOfs, anyOf)
	}
	return out, nil
}

// match lowers a single target match to a Match element.
func (cv *Converter) match(m *ast.Match, sourceNS []string) (Match, *alfaErrors.Error) {
	if m.Func != nil {
		return cv.matchFunction(m.Func, sourceNS)
	}
	return cv.matchOperation(m.Op, sourceNS)
}

// matchFunction lowers an explicit match-function application, using
// the declared function's URI as the MatchId.
func (cv *Converter) matchFunction(mf *ast.MatchFunction, sourceNS []string) (Match, *alfaErrors.Error) {
	fn, err := cv.ctx.LookupFunction(mf.FunctionName(), sourceNS)
	if err != nil {
		return Match{}, err
	}
	lit, err := cv.ctx.ConstantToTypedLiteral(mf.Literal, sourceNS)
	if err != nil {
		return Match{}, err
	}
	attr, err := cv.ctx.LookupAttribute(strings.Join(mf.Attribute, "."), sourceNS)
	if err != nil {
		return Match{}, err
	}
	cat, err := cv.ctx.LookupCategory(attr.Category, attr.NS)
	if err != nil {
		return Match{}, err
	}
	attrType, err := cv.ctx.LookupType(attr.Type, attr.NS)
	if err != nil {
		return Match{}, err
	}
	return Match{
		MatchID:            fn.URI,
		Value:              lit.Value,
		ValueType:          lit.TypeURI,
		DesignatorID:       attr.URI,
		DesignatorCategory: cat.URI,
		DesignatorType:     attrType.URI,
		MustBePresent:      mf.MustBePresent,
		Issuer:             mf.Issuer,
	}, nil
}

// matchOperation lowers an infix match. A reversed match (attribute
// written first) needs the operator to be commutative or to declare an
// inverse, since XACML match functions take the literal first.
func (cv *Converter) matchOperation(mo *ast.MatchOperation, sourceNS []string) (Match, *alfaErrors.Error) {
	lit, err := cv.ctx.ConstantToTypedLiteral(mo.Literal, sourceNS)
	if err != nil {
		return Match{}, err
	}
	infix, err := cv.ctx.LookupInfix(mo.Operator.QualifiedName(), sourceNS)
	if err != nil {
		return Match{}, err
	}
	if mo.Reversed && !infix.Commutative {
		if infix.Inverse == "" {
			return Match{}, alfaErrors.New(alfaErrors.ErrorTypeNotCommutative,
				fmt.Sprintf("operator '%s' is not commutative and declares no inverse; the literal must come first", infix.Operator),
				mo.Loc)
		}
		infix, err = cv.ctx.LookupInfixInverse(mo.Operator.QualifiedName(), sourceNS)
		if err != nil {
			return Match{}, err
		}
	}

	attr, err := cv.ctx.LookupAttribute(mo.AttributeName(), sourceNS)
	if err != nil {
		return Match{}, err
	}
	attrType, err := cv.ctx.LookupType(attr.Type, attr.NS)
	if err != nil {
		return Match{}, err
	}
	cat, err := cv.ctx.LookupCategory(attr.Category, attr.NS)
	if err != nil {
		return Match{}, err
	}

	// pick the signature taking (literal type, attribute type) to boolean
	for _, s := range infix.Signatures {
		first, err := cv.ctx.LookupType(s.FirstArg, infix.NS)
		if err != nil {
			return Match{}, err
		}
		second, err := cv.ctx.LookupType(s.SecondArg, infix.NS)
		if err != nil {
			return Match{}, err
		}
		output, err := cv.ctx.LookupType(s.Output, infix.NS)
		if err != nil {
			return Match{}, err
		}
		if first.URI == lit.TypeURI && second.URI == attrType.URI && output.URI == ast.BooleanURI {
			return Match{
				MatchID:            s.URI,
				Value:              lit.Value,
				ValueType:          lit.TypeURI,
				DesignatorID:       attr.URI,
				DesignatorCategory: cat.URI,
				DesignatorType:     attrType.URI,
				MustBePresent:      mo.MustBePresent,
				Issuer:             mo.Issuer,
			}, nil
		}
	}
	return Match{}, alfaErrors.New(alfaErrors.ErrorTypeNoMatchingSignature,
		fmt.Sprintf("no signature of operator '%s' matches the literal and attribute types", infix.Operator),
		mo.Loc)
}
