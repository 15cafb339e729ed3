package xacml

import (
	"fmt"
	"log/slog"

	"mercator-hq/alfac/pkg/alfa/ast"
	"mercator-hq/alfac/pkg/alfa/compiler"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// Converter lowers resolved AST nodes into XACML documents. It holds
// the compilation context used to resolve symbols to URIs.
type Converter struct {
	ctx *compiler.Context
}

// NewConverter returns a converter backed by the given context.
func NewConverter(ctx *compiler.Context) *Converter {
	return &Converter{ctx: ctx}
}

// condition lowers an ALFA condition, checking that the expression
// resolves to an atomic boolean.
func (cv *Converter) condition(c *ast.Condition) (*Condition, *alfaErrors.Error) {
	t, terr := cv.typeForExpr(c.Expr, c.NS)
	if terr != nil || t.Shape != TypeAtomic {
		return nil, alfaErrors.New(alfaErrors.ErrorTypeConditionBoolean,
			"Conditions must evaluate to atomic booleans", c.Loc).
			WithSuggestion("the expression does not resolve to an atomic type")
	}
	if t.URI != ast.BooleanURI {
		return nil, alfaErrors.New(alfaErrors.ErrorTypeConditionBoolean,
			"Conditions must evaluate to booleans", c.Loc).
			WithSuggestion(fmt.Sprintf("the expression has type %s", t.URI))
	}
	expr, err := cv.expression(c.Expr, c.NS)
	if err != nil {
		return nil, err
	}
	return &Condition{Expr: expr}, nil
}

// typeForExpr determines the fully resolved type of an expression.
func (cv *Converter) typeForExpr(e ast.CondExpression, sourceNS []string) (ResolvedType, *alfaErrors.Error) {
	switch e := e.(type) {
	case *ast.InfixExpr:
		_, t, err := cv.infixSignature(e, sourceNS)
		return t, err
	case *ast.Literal:
		lit, err := cv.ctx.ConstantToTypedLiteral(e.Value, sourceNS)
		if err != nil {
			return ResolvedType{}, err
		}
		return atomicType(lit.TypeURI), nil
	case *ast.AttributeRef:
		attr, err := cv.ctx.LookupAttribute(e.Designator.FullyQualifiedName(), sourceNS)
		if err != nil {
			return ResolvedType{}, err
		}
		typedef, err := cv.ctx.LookupType(attr.Type, attr.NS)
		if err != nil {
			return ResolvedType{}, err
		}
		// attributes always resolve to bags of atomics
		return atomicBagType(typedef.URI), nil
	case *ast.FunctionCall:
		fn, err := cv.ctx.LookupFunction(e.FullyQualifiedName(), sourceNS)
		if err != nil {
			return ResolvedType{}, err
		}
		return cv.functionOutput(fn.Output, fn.NS)
	case *ast.FunctionRef:
		return ResolvedType{}, alfaErrors.Newf(alfaErrors.ErrorTypeConvert,
			"a function reference has a function type, which is not a value type")
	}
	return ResolvedType{}, alfaErrors.Newf(alfaErrors.ErrorTypeConvert,
		"empty expressions have no type")
}

// functionOutput resolves a function's declared output type. The type
// name is looked up in the function's own namespace.
func (cv *Converter) functionOutput(out ast.FunctionArg, fnNS []string) (ResolvedType, *alfaErrors.Error) {
	switch out.Kind {
	case ast.ArgAtomic:
		t, err := cv.ctx.LookupType(out.Type, fnNS)
		if err != nil {
			return ResolvedType{}, err
		}
		return atomicType(t.URI), nil
	case ast.ArgAtomicBag:
		t, err := cv.ctx.LookupType(out.Type, fnNS)
		if err != nil {
			return ResolvedType{}, err
		}
		return atomicBagType(t.URI), nil
	case ast.ArgAnyAtomicBag:
		return ResolvedType{Shape: TypeAnyAtomicBag}, nil
	case ast.ArgAnyAtomic:
		return ResolvedType{Shape: TypeAnyAtomic}, nil
	}
	return ResolvedType{}, alfaErrors.Newf(alfaErrors.ErrorTypeConvert,
		"function output %s cannot be used as a value type", out.String())
}

// infixSignature resolves the infix operator of an expression and picks
// the first declared signature compatible with the argument types. The
// returned type is the signature's output type.
func (cv *Converter) infixSignature(e *ast.InfixExpr, sourceNS []string) (ast.InfixSignature, ResolvedType, *alfaErrors.Error) {
	infix, err := cv.ctx.LookupInfix(e.Op.QualifiedName(), sourceNS)
	if err != nil {
		return ast.InfixSignature{}, ResolvedType{}, err
	}
	firstType, err := cv.typeForExpr(e.Left, sourceNS)
	if err != nil {
		return ast.InfixSignature{}, ResolvedType{}, err
	}
	secondType, err := cv.typeForExpr(e.Right, sourceNS)
	if err != nil {
		return ast.InfixSignature{}, ResolvedType{}, err
	}
	sig, err := cv.matchInfixSignature(infix, firstType, secondType)
	if err != nil {
		return ast.InfixSignature{}, ResolvedType{}, err
	}
	output, err := cv.ctx.LookupType(sig.Output, infix.NS)
	if err != nil {
		return ast.InfixSignature{}, ResolvedType{}, err
	}
	return sig, atomicType(output.URI), nil
}

// matchInfixSignature scans the operator's signatures in declaration
// order. An atomic argument must match the signature's type exactly; a
// bag argument is unconstrained here, since lifting is checked later.
func (cv *Converter) matchInfixSignature(infix *ast.Infix, firstType, secondType ResolvedType) (ast.InfixSignature, *alfaErrors.Error) {
	if firstType.Shape == TypeAnyAtomic || firstType.Shape == TypeAnyAtomicBag ||
		secondType.Shape == TypeAnyAtomic || secondType.Shape == TypeAnyAtomicBag {
		return ast.InfixSignature{}, alfaErrors.Newf(alfaErrors.ErrorTypeConvert,
			"arguments to operator '%s' must resolve to concrete types", infix.Operator)
	}
	for _, s := range infix.Signatures {
		slog.Debug("checking infix signature", "operator", infix.Operator, "uri", s.URI)
		sigFirst, err := cv.ctx.LookupType(s.FirstArg, infix.NS)
		if err != nil {
			return ast.InfixSignature{}, err
		}
		sigSecond, err := cv.ctx.LookupType(s.SecondArg, infix.NS)
		if err != nil {
			return ast.InfixSignature{}, err
		}
		if firstType.Shape == TypeAtomic && firstType.URI != sigFirst.URI {
			continue
		}
		if secondType.Shape == TypeAtomic && secondType.URI != sigSecond.URI {
			continue
		}
		return s, nil
	}
	return ast.InfixSignature{}, alfaErrors.Newf(alfaErrors.ErrorTypeNoMatchingSignature,
		"no signature of operator '%s' accepts the argument types", infix.Operator)
}

// expression lowers an AST condition expression into a XACML
// expression.
func (cv *Converter) expression(e ast.CondExpression, sourceNS []string) (Expression, *alfaErrors.Error) {
	switch e := e.(type) {
	case *ast.InfixExpr:
		return cv.infixApply(e, sourceNS)
	case *ast.Literal:
		lit, err := cv.ctx.ConstantToTypedLiteral(e.Value, sourceNS)
		if err != nil {
			return nil, err
		}
		return &AttributeValue{TypeURI: lit.TypeURI, Value: lit.Value}, nil
	case *ast.FunctionRef:
		fn, err := cv.ctx.LookupFunction(e.FullyQualifiedName(), sourceNS)
		if err != nil {
			return nil, err
		}
		return &FunctionRef{FunctionURI: fn.URI}, nil
	case *ast.FunctionCall:
		return cv.functionApply(e, sourceNS)
	case *ast.AttributeRef:
		return cv.designator(&e.Designator, sourceNS)
	}
	return nil, alfaErrors.Newf(alfaErrors.ErrorTypeConvert,
		"cannot serialize an empty expression")
}

// functionApply lowers a declared-function invocation.
func (cv *Converter) functionApply(fc *ast.FunctionCall, sourceNS []string) (Expression, *alfaErrors.Error) {
	fn, err := cv.ctx.LookupFunction(fc.FullyQualifiedName(), sourceNS)
	if err != nil {
		return nil, err
	}
	args := make([]Expression, 0, len(fc.Arguments))
	for _, a := range fc.Arguments {
		xa, err := cv.expression(a, sourceNS)
		if err != nil {
			return nil, err
		}
		args = append(args, xa)
	}
	ret, err := cv.functionOutput(fn.Output, fn.NS)
	if err != nil {
		return nil, err
	}
	return &Apply{FunctionURI: fn.URI, Arguments: args, ReturnType: ret}, nil
}

// designator lowers an attribute designator, resolving its category and
// type in the attribute's own namespace.
func (cv *Converter) designator(d *ast.AttributeDesignator, sourceNS []string) (*AttributeDesignator, *alfaErrors.Error) {
	attr, err := cv.ctx.LookupAttribute(d.FullyQualifiedName(), sourceNS)
	if err != nil {
		return nil, err
	}
	typedef, err := cv.ctx.LookupType(attr.Type, attr.NS)
	if err != nil {
		return nil, err
	}
	cat, err := cv.ctx.LookupCategory(attr.Category, attr.NS)
	if err != nil {
		return nil, err
	}
	return &AttributeDesignator{
		AttributeID:   attr.URI,
		Category:      cat.URI,
		TypeURI:       typedef.URI,
		MustBePresent: d.MustBePresent,
		Issuer:        d.Issuer,
	}, nil
}

// infixApply lowers an infix operation into function application,
// lifting through any-of-any when an argument is a bag.
func (cv *Converter) infixApply(e *ast.InfixExpr, sourceNS []string) (Expression, *alfaErrors.Error) {
	infix, err := cv.ctx.LookupInfix(e.Op.QualifiedName(), sourceNS)
	if err != nil {
		return nil, err
	}
	firstType, err := cv.typeForExpr(e.Left, sourceNS)
	if err != nil {
		return nil, err
	}
	secondType, err := cv.typeForExpr(e.Right, sourceNS)
	if err != nil {
		return nil, err
	}
	sig, err := cv.matchInfixSignature(infix, firstType, secondType)
	if err != nil {
		return nil, err
	}
	left, err := cv.expression(e.Left, sourceNS)
	if err != nil {
		return nil, err
	}
	right, err := cv.expression(e.Right, sourceNS)
	if err != nil {
		return nil, err
	}
	args := []Expression{left, right}

	output, err := cv.ctx.LookupType(sig.Output, infix.NS)
	if err != nil {
		return nil, err
	}
	returnType := atomicType(output.URI)

	if !firstType.IsBag() && !secondType.IsBag() {
		return &Apply{FunctionURI: sig.URI, Arguments: args, ReturnType: returnType}, nil
	}
	if !infix.AllowBags {
		return nil, alfaErrors.New(alfaErrors.ErrorTypeBagsDisallowed,
			fmt.Sprintf("operator '%s' does not accept bag arguments", infix.Operator), e.Op.Loc)
	}
	if output.URI != ast.BooleanURI {
		return nil, alfaErrors.New(alfaErrors.ErrorTypeBagsBooleanRequired,
			fmt.Sprintf("operator '%s' must produce a boolean to accept bag arguments", infix.Operator), e.Op.Loc)
	}
	lifted := append([]Expression{&FunctionRef{FunctionURI: sig.URI}}, args...)
	return &Apply{FunctionURI: anyOfAnyURI, Arguments: lifted, ReturnType: returnType}, nil
}
