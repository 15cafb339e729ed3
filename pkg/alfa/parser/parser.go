package parser

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	"mercator-hq/alfac/pkg/alfa/compiler"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

const (
	// DefaultMaxFileSize is the default maximum size for ALFA source
	// files (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// Parser parses ALFA source into documents, registering every named
// element it encounters into the compilation context.
type Parser struct {
	ctx         *compiler.Context
	maxFileSize int64
}

// NewParser creates a parser bound to a compilation context.
func NewParser(ctx *compiler.Context) *Parser {
	return &Parser{
		ctx:         ctx,
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithMaxFileSize sets the maximum file size in bytes.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// Parse reads and parses an ALFA file.
func (p *Parser) Parse(filename string) (*ast.Document, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, alfaErrors.Newf(alfaErrors.ErrorTypeIO, "failed to access file: %v", err)
	}
	if info.Size() > p.maxFileSize {
		return nil, alfaErrors.Newf(alfaErrors.ErrorTypeIO,
			"file size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize)
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, alfaErrors.Newf(alfaErrors.ErrorTypeIO, "failed to read file: %v", err)
	}
	return p.ParseBytes(filename, src)
}

// ParseBytes parses ALFA source held in memory. The filename is used
// only for error locations.
func (p *Parser) ParseBytes(filename string, src []byte) (*ast.Document, error) {
	fp := &fileParser{
		lex:      newLexer(filename, src),
		ctx:      p.ctx,
		filename: filename,
	}
	doc, perr := fp.parseDocument()
	if perr != nil {
		alfaErrors.AddContextToError(perr)
		return nil, perr
	}
	slog.Debug("parsed document", "file", filename, "namespaces", len(doc.Namespaces))
	return doc, nil
}

// ParseMulti parses several ALFA files into one collection. Parsing
// stops at the first file that fails.
func (p *Parser) ParseMulti(filenames []string) (*ast.Collection, error) {
	coll := &ast.Collection{}
	for _, f := range filenames {
		doc, err := p.Parse(f)
		if err != nil {
			return nil, err
		}
		coll.Add(doc)
	}
	return coll, nil
}

// fileParser holds the state for parsing one source file.
type fileParser struct {
	lex      *lexer
	buf      []token
	ctx      *compiler.Context
	filename string

	// most recent comment seen, which becomes the description of the
	// next policy, policy set, or rule
	lastComment string
}

// peek returns the n-th upcoming non-comment token. Comments pulled
// through during lookahead land in lastComment.
func (p *fileParser) peek(n int) token {
	for len(p.buf) <= n {
		t := p.lex.next()
		if t.Kind == tokComment {
			p.lastComment = t.Text
			continue
		}
		p.buf = append(p.buf, t)
		if t.Kind == tokEOF {
			break
		}
	}
	if n >= len(p.buf) {
		return p.buf[len(p.buf)-1]
	}
	return p.buf[n]
}

func (p *fileParser) next() token {
	t := p.peek(0)
	if t.Kind != tokEOF {
		p.buf = p.buf[1:]
	}
	return t
}

func (p *fileParser) syntaxErrorf(loc alfaErrors.Location, format string, args ...any) *alfaErrors.Error {
	e := alfaErrors.Newf(alfaErrors.ErrorTypeSyntax, format, args...)
	e.Location = loc
	return e
}

func (p *fileParser) expect(kind tokenKind) (token, *alfaErrors.Error) {
	t := p.next()
	if t.Kind == tokError {
		return t, p.syntaxErrorf(t.Loc, "%s", t.Text)
	}
	if t.Kind != kind {
		return t, p.syntaxErrorf(t.Loc, "expected %s, found %s", kind, describeToken(t))
	}
	return t, nil
}

func (p *fileParser) expectKeyword(kw string) (token, *alfaErrors.Error) {
	t := p.next()
	if t.Kind != tokIdent || t.Text != kw {
		return t, p.syntaxErrorf(t.Loc, "expected '%s', found %s", kw, describeToken(t))
	}
	return t, nil
}

func (p *fileParser) expectOperator(op string) (token, *alfaErrors.Error) {
	t := p.next()
	if t.Kind != tokOperator || t.Text != op {
		return t, p.syntaxErrorf(t.Loc, "expected '%s', found %s", op, describeToken(t))
	}
	return t, nil
}

func describeToken(t token) string {
	switch t.Kind {
	case tokEOF:
		return "end of file"
	case tokIdent, tokOperator, tokNumber:
		return "'" + t.Text + "'"
	case tokString:
		return fmt.Sprintf("string %q", t.Text)
	}
	return t.Kind.String()
}

// dottedName parses ident ('.' ident)* and returns the components.
func (p *fileParser) dottedName() ([]string, alfaErrors.Location, *alfaErrors.Error) {
	first, err := p.expect(tokIdent)
	if err != nil {
		return nil, first.Loc, err
	}
	parts := []string{first.Text}
	for p.peek(0).Kind == tokDot && p.peek(1).Kind == tokIdent {
		p.next()
		t := p.next()
		parts = append(parts, t.Text)
	}
	return parts, first.Loc, nil
}

// parseDocument parses top-level namespaces until end of file.
func (p *fileParser) parseDocument() (*ast.Document, *alfaErrors.Error) {
	doc := &ast.Document{Filename: p.filename}
	for {
		t := p.peek(0)
		switch t.Kind {
		case tokEOF:
			return doc, nil
		case tokError:
			return nil, p.syntaxErrorf(t.Loc, "%s", t.Text)
		case tokIdent:
			if t.Text != "namespace" {
				return nil, p.syntaxErrorf(t.Loc, "expected 'namespace', found '%s'", t.Text)
			}
			ns, err := p.parseNamespace(nil)
			if err != nil {
				return nil, err
			}
			doc.Namespaces = append(doc.Namespaces, ns)
		default:
			return nil, p.syntaxErrorf(t.Loc, "expected 'namespace', found %s", describeToken(t))
		}
	}
}

// parseNamespace parses "namespace dotted.name { items }". parentPath
// is the enclosing namespace path for nested declarations.
func (p *fileParser) parseNamespace(parentPath []string) (*ast.Namespace, *alfaErrors.Error) {
	kw, err := p.expectKeyword("namespace")
	if err != nil {
		return nil, err
	}
	components, _, err := p.dottedName()
	if err != nil {
		return nil, err
	}
	path := append(append([]string{}, parentPath...), components...)
	ns := &ast.Namespace{Path: path, Loc: kw.Loc}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	for {
		t := p.peek(0)
		if t.Kind == tokRBrace {
			p.next()
			return ns, nil
		}
		if t.Kind == tokEOF {
			return nil, p.syntaxErrorf(t.Loc, "unexpected end of file inside namespace '%s'", ns.DottedName())
		}
		desc := p.lastComment
		p.lastComment = ""
		if err := p.parseNamespaceItem(ns, desc); err != nil {
			return nil, err
		}
	}
}

func (p *fileParser) parseNamespaceItem(ns *ast.Namespace, desc string) *alfaErrors.Error {
	t := p.peek(0)
	if t.Kind != tokIdent {
		return p.syntaxErrorf(t.Loc, "expected a declaration, found %s", describeToken(t))
	}
	switch t.Text {
	case "namespace":
		child, err := p.parseNamespace(ns.Path)
		if err != nil {
			return err
		}
		ns.Namespaces = append(ns.Namespaces, child)
		return nil
	case "import":
		imp, err := p.parseImport()
		if err != nil {
			return err
		}
		ns.Imports = append(ns.Imports, imp)
		p.ctx.RegisterImport(ns.Path, imp)
		return nil
	case "type":
		td, err := p.parseTypeDef(ns.Path)
		if err != nil {
			return err
		}
		ns.Types = append(ns.Types, td)
		return p.ctx.RegisterType(td)
	case "category":
		cat, err := p.parseCategory(ns.Path)
		if err != nil {
			return err
		}
		ns.Categories = append(ns.Categories, cat)
		return p.ctx.RegisterCategory(cat)
	case "attribute":
		attr, err := p.parseAttribute(ns.Path)
		if err != nil {
			return err
		}
		ns.Attributes = append(ns.Attributes, attr)
		return p.ctx.RegisterAttribute(attr)
	case "function":
		fn, err := p.parseFunction(ns.Path)
		if err != nil {
			return err
		}
		ns.Functions = append(ns.Functions, fn)
		return p.ctx.RegisterFunction(fn)
	case "infix":
		op, err := p.parseInfix(ns.Path)
		if err != nil {
			return err
		}
		ns.InfixFns = append(ns.InfixFns, op)
		return p.ctx.RegisterInfix(op)
	case "advice":
		ad, err := p.parseAdvice(ns.Path)
		if err != nil {
			return err
		}
		ns.Advice = append(ns.Advice, ad)
		return p.ctx.RegisterAdvice(ad)
	case "obligation":
		ob, err := p.parseObligation(ns.Path)
		if err != nil {
			return err
		}
		ns.Obligations = append(ns.Obligations, ob)
		return p.ctx.RegisterObligation(ob)
	case "ruleCombinator":
		rc, err := p.parseRuleCombinator(ns.Path)
		if err != nil {
			return err
		}
		ns.RuleCombinators = append(ns.RuleCombinators, rc)
		return p.ctx.RegisterRuleCombinator(rc)
	case "policyCombinator":
		pc, err := p.parsePolicyCombinator(ns.Path)
		if err != nil {
			return err
		}
		ns.PolicyCombinators = append(ns.PolicyCombinators, pc)
		return p.ctx.RegisterPolicyCombinator(pc)
	case "rule":
		rule, err := p.parseRule(ns.Path, ast.GenName{}, desc)
		if err != nil {
			return err
		}
		ns.Rules = append(ns.Rules, rule)
		if rule.ID != "" {
			return p.ctx.RegisterRule(rule)
		}
		return nil
	case "policy":
		pol, err := p.parsePolicy(ns.Path, ast.GenName{}, desc, true)
		if err != nil {
			return err
		}
		ns.Policies = append(ns.Policies, pol)
		return p.ctx.RegisterPolicy(pol)
	case "policyset":
		ps, err := p.parsePolicySet(ns.Path, ast.GenName{}, desc, true)
		if err != nil {
			return err
		}
		ns.PolicySets = append(ns.PolicySets, ps)
		return p.ctx.RegisterPolicySet(ps)
	default:
		return p.syntaxErrorf(t.Loc, "unexpected declaration '%s'", t.Text)
	}
}

// parseImport parses "import dotted.name", "import dotted.name.*", or
// an operator import like "import _A2X.==".
func (p *fileParser) parseImport() (*ast.Import, *alfaErrors.Error) {
	kw, err := p.expectKeyword("import")
	if err != nil {
		return nil, err
	}
	first, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	imp := &ast.Import{Components: []string{first.Text}, Loc: kw.Loc}
	for p.peek(0).Kind == tokDot {
		p.next()
		t := p.next()
		switch {
		case t.Kind == tokIdent:
			imp.Components = append(imp.Components, t.Text)
		case t.Kind == tokOperator && t.Text == "*":
			imp.Wildcard = true
			return imp, nil
		case t.Kind == tokOperator:
			// operators are importable names too
			imp.Components = append(imp.Components, t.Text)
			return imp, nil
		default:
			return nil, p.syntaxErrorf(t.Loc, "expected an import component, found %s", describeToken(t))
		}
	}
	return imp, nil
}

// parseNameURIPair handles the shared "<keyword> name = \"uri\"" shape
// of type, category, advice, obligation, and combinator declarations.
func (p *fileParser) parseNameURIPair(keyword string) (string, string, alfaErrors.Location, *alfaErrors.Error) {
	kw, err := p.expectKeyword(keyword)
	if err != nil {
		return "", "", kw.Loc, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return "", "", kw.Loc, err
	}
	if _, err := p.expectOperator("="); err != nil {
		return "", "", kw.Loc, err
	}
	uri, err := p.expect(tokString)
	if err != nil {
		return "", "", kw.Loc, err
	}
	return name.Text, uri.Text, kw.Loc, nil
}

func (p *fileParser) parseTypeDef(nsPath []string) (*ast.TypeDef, *alfaErrors.Error) {
	name, uri, loc, err := p.parseNameURIPair("type")
	if err != nil {
		return nil, err
	}
	return &ast.TypeDef{ID: name, URI: uri, NS: nsPath, Loc: loc}, nil
}

func (p *fileParser) parseCategory(nsPath []string) (*ast.Category, *alfaErrors.Error) {
	name, uri, loc, err := p.parseNameURIPair("category")
	if err != nil {
		return nil, err
	}
	return &ast.Category{ID: name, URI: uri, NS: nsPath, Loc: loc}, nil
}

func (p *fileParser) parseAdvice(nsPath []string) (*ast.AdviceDef, *alfaErrors.Error) {
	name, uri, loc, err := p.parseNameURIPair("advice")
	if err != nil {
		return nil, err
	}
	return &ast.AdviceDef{ID: name, URI: uri, NS: nsPath, Loc: loc}, nil
}

func (p *fileParser) parseObligation(nsPath []string) (*ast.ObligationDef, *alfaErrors.Error) {
	name, uri, loc, err := p.parseNameURIPair("obligation")
	if err != nil {
		return nil, err
	}
	return &ast.ObligationDef{ID: name, URI: uri, NS: nsPath, Loc: loc}, nil
}

func (p *fileParser) parseRuleCombinator(nsPath []string) (*ast.RuleCombinator, *alfaErrors.Error) {
	name, uri, loc, err := p.parseNameURIPair("ruleCombinator")
	if err != nil {
		return nil, err
	}
	return &ast.RuleCombinator{ID: name, URI: uri, NS: nsPath, Loc: loc}, nil
}

func (p *fileParser) parsePolicyCombinator(nsPath []string) (*ast.PolicyCombinator, *alfaErrors.Error) {
	name, uri, loc, err := p.parseNameURIPair("policyCombinator")
	if err != nil {
		return nil, err
	}
	return &ast.PolicyCombinator{ID: name, URI: uri, NS: nsPath, Loc: loc}, nil
}

// parseAttribute parses an attribute declaration. Its three
// assignments (id, type, category) may appear in any order, but each
// exactly once.
func (p *fileParser) parseAttribute(nsPath []string) (*ast.Attribute, *alfaErrors.Error) {
	kw, err := p.expectKeyword("attribute")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var id, typeName, category string
	for i := 0; i < 3; i++ {
		field, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expectOperator("="); err != nil {
			return nil, err
		}
		switch field.Text {
		case "id":
			if id != "" {
				return nil, p.syntaxErrorf(field.Loc, "attribute '%s' defines id twice", name.Text)
			}
			uri, err := p.expect(tokString)
			if err != nil {
				return nil, err
			}
			id = uri.Text
		case "type":
			if typeName != "" {
				return nil, p.syntaxErrorf(field.Loc, "attribute '%s' defines type twice", name.Text)
			}
			parts, _, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			typeName = strings.Join(parts, ".")
		case "category":
			if category != "" {
				return nil, p.syntaxErrorf(field.Loc, "attribute '%s' defines category twice", name.Text)
			}
			parts, _, err := p.dottedName()
			if err != nil {
				return nil, err
			}
			category = strings.Join(parts, ".")
		default:
			return nil, p.syntaxErrorf(field.Loc,
				"attribute field must be id, type, or category, found '%s'", field.Text)
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.Attribute{
		ID:       name.Text,
		Type:     typeName,
		Category: category,
		URI:      id,
		NS:       nsPath,
		Loc:      kw.Loc,
	}, nil
}

// parseFunction parses
// "function name = \"uri\" : arg arg [*] -> out".
func (p *fileParser) parseFunction(nsPath []string) (*ast.Function, *alfaErrors.Error) {
	kw, err := p.expectKeyword("function")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator("="); err != nil {
		return nil, err
	}
	uri, err := p.expect(tokString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	var inputs ast.FunctionInputs
	for {
		t := p.peek(0)
		if t.Kind == tokOperator && t.Text == "->" {
			p.next()
			break
		}
		if t.Kind == tokOperator && t.Text == "*" {
			p.next()
			inputs.Wildcard = true
			if _, err := p.expectOperator("->"); err != nil {
				return nil, err
			}
			break
		}
		arg, err := p.parseFunctionArg(true)
		if err != nil {
			return nil, err
		}
		inputs.Args = append(inputs.Args, arg)
	}
	output, err := p.parseFunctionArg(false)
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		ID:     name.Text,
		NS:     nsPath,
		URI:    uri.Text,
		Inputs: inputs,
		Output: output,
		Loc:    kw.Loc,
	}, nil
}

func (p *fileParser) parseFunctionArg(input bool) (ast.FunctionArg, *alfaErrors.Error) {
	t := p.next()
	if t.Kind != tokIdent {
		return ast.FunctionArg{}, p.syntaxErrorf(t.Loc, "expected a type, found %s", describeToken(t))
	}
	switch t.Text {
	case "bag":
		if _, err := p.expect(tokLBracket); err != nil {
			return ast.FunctionArg{}, err
		}
		inner, err := p.expect(tokIdent)
		if err != nil {
			return ast.FunctionArg{}, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return ast.FunctionArg{}, err
		}
		if inner.Text == "anyAtomic" {
			return ast.FunctionArg{Kind: ast.ArgAnyAtomicBag}, nil
		}
		return ast.FunctionArg{Kind: ast.ArgAtomicBag, Type: inner.Text}, nil
	case "anyAtomic":
		return ast.FunctionArg{Kind: ast.ArgAnyAtomic}, nil
	case "anyAtomicOrBag":
		if !input {
			return ast.FunctionArg{}, p.syntaxErrorf(t.Loc, "anyAtomicOrBag is not a valid function output")
		}
		return ast.FunctionArg{Kind: ast.ArgAnyAtomicOrBag}, nil
	case "function":
		if !input {
			return ast.FunctionArg{}, p.syntaxErrorf(t.Loc, "function is not a valid function output")
		}
		return ast.FunctionArg{Kind: ast.ArgFunction}, nil
	default:
		return ast.FunctionArg{Kind: ast.ArgAtomic, Type: t.Text}, nil
	}
}

// parseInfix parses
// "infix [allowbags] [comm] (OP) = { \"uri\" : t1 t2 -> t3 ... } [inv OP]".
func (p *fileParser) parseInfix(nsPath []string) (*ast.Infix, *alfaErrors.Error) {
	kw, err := p.expectKeyword("infix")
	if err != nil {
		return nil, err
	}
	op := &ast.Infix{NS: nsPath, Loc: kw.Loc}
	var sawComm, sawAllowBags bool
	for p.peek(0).Kind == tokIdent {
		mod := p.next()
		switch mod.Text {
		case "comm":
			if sawComm {
				return nil, p.syntaxErrorf(mod.Loc, "duplicate 'comm' modifier").WithType(alfaErrors.ErrorTypeDuplicateModifier)
			}
			sawComm = true
			op.Commutative = true
		case "allowbags":
			if sawAllowBags {
				return nil, p.syntaxErrorf(mod.Loc, "duplicate 'allowbags' modifier").WithType(alfaErrors.ErrorTypeDuplicateModifier)
			}
			sawAllowBags = true
			op.AllowBags = true
		default:
			return nil, p.syntaxErrorf(mod.Loc, "unknown infix modifier '%s'", mod.Text)
		}
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	opName, err := p.expect(tokOperator)
	if err != nil {
		return nil, err
	}
	op.Operator = opName.Text
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expectOperator("="); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	for p.peek(0).Kind != tokRBrace {
		sig, err := p.parseInfixSignature()
		if err != nil {
			return nil, err
		}
		op.Signatures = append(op.Signatures, sig)
	}
	p.next() // }
	if t := p.peek(0); t.Kind == tokIdent && t.Text == "inv" {
		p.next()
		inv, err := p.expect(tokOperator)
		if err != nil {
			return nil, err
		}
		op.Inverse = inv.Text
	}
	if op.Commutative && op.Inverse != "" {
		return nil, p.syntaxErrorf(kw.Loc,
			"a commutative operator cannot declare an inverse").WithType(alfaErrors.ErrorTypeCommutativeInverse)
	}
	return op, nil
}

func (p *fileParser) parseInfixSignature() (ast.InfixSignature, *alfaErrors.Error) {
	uri, err := p.expect(tokString)
	if err != nil {
		return ast.InfixSignature{}, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return ast.InfixSignature{}, err
	}
	first, err := p.expect(tokIdent)
	if err != nil {
		return ast.InfixSignature{}, err
	}
	second, err := p.expect(tokIdent)
	if err != nil {
		return ast.InfixSignature{}, err
	}
	if _, err := p.expectOperator("->"); err != nil {
		return ast.InfixSignature{}, err
	}
	out, err := p.expect(tokIdent)
	if err != nil {
		return ast.InfixSignature{}, err
	}
	return ast.InfixSignature{
		URI:       uri.Text,
		FirstArg:  first.Text,
		SecondArg: second.Text,
		Output:    out.Text,
	}, nil
}
