package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"mercator-hq/alfac/pkg/alfa/ast"
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// DefaultBaseNamespace prefixes generated policy, policy set, and rule
// identifiers when no base namespace is configured.
const DefaultBaseNamespace = "https://sr.ht/~gheartsfield/a2x/alfa/ident/"

// Config carries the static compilation settings.
type Config struct {
	// BaseNamespace prefixes generated identifiers. Empty selects
	// DefaultBaseNamespace.
	BaseNamespace string
	// EnableBuiltins controls registration of the standard ALFA
	// elements under the _A2X namespace.
	EnableBuiltins bool
	// Version is stamped into emitted XACML documents.
	Version string
}

// DefaultConfig returns the settings used when no configuration file or
// flags override them.
func DefaultConfig() Config {
	return Config{
		EnableBuiltins: true,
	}
}

// TypedLiteral pairs a lexical value with its XACML data type URI.
type TypedLiteral struct {
	TypeURI string
	Value   string
}

// Context is the shared state of one compilation: every named element
// registered so far, the imports in effect per namespace, and the
// counters that name anonymous policies and rules.
type Context struct {
	config Config

	imports map[string][]*ast.Import

	policysetIDs map[string]int
	policyIDs    map[string]int
	ruleIDs      map[string]int

	policysets        *Resolver[*ast.PolicySet]
	policies          *Resolver[*ast.Policy]
	rules             *Resolver[*ast.RuleDef]
	ruleCombinators   *Resolver[*ast.RuleCombinator]
	policyCombinators *Resolver[*ast.PolicyCombinator]
	functions         *Resolver[*ast.Function]
	infixOps          *Resolver[*ast.Infix]
	attributes        *Resolver[*ast.Attribute]
	typedefs          *Resolver[*ast.TypeDef]
	advice            *Resolver[*ast.AdviceDef]
	obligations       *Resolver[*ast.ObligationDef]
	categories        *Resolver[*ast.Category]

	// identifier URIs assigned explicitly in source, for collision
	// detection against each other
	usedURIs map[string]struct{}
}

var _ ast.IDContext = (*Context)(nil)

// New creates a compilation context. The standard ALFA elements are
// registered when cfg.EnableBuiltins is set; a minimal protected set
// needed for rewriting conditioned policies is always present.
func New(cfg Config) *Context {
	c := &Context{
		config:            cfg,
		imports:           make(map[string][]*ast.Import),
		policysetIDs:      make(map[string]int),
		policyIDs:         make(map[string]int),
		ruleIDs:           make(map[string]int),
		policysets:        NewResolver[*ast.PolicySet]("policy set"),
		policies:          NewResolver[*ast.Policy]("policy"),
		rules:             NewResolver[*ast.RuleDef]("rule"),
		ruleCombinators:   NewResolver[*ast.RuleCombinator]("rule combinator"),
		policyCombinators: NewResolver[*ast.PolicyCombinator]("policy combinator"),
		functions:         NewResolver[*ast.Function]("function"),
		infixOps:          NewResolver[*ast.Infix]("infix operator"),
		attributes:        NewResolver[*ast.Attribute]("attribute"),
		typedefs:          NewResolver[*ast.TypeDef]("type"),
		advice:            NewResolver[*ast.AdviceDef]("advice"),
		obligations:       NewResolver[*ast.ObligationDef]("obligation"),
		categories:        NewResolver[*ast.Category]("category"),
		usedURIs:          make(map[string]struct{}),
	}
	if cfg.EnableBuiltins {
		if err := c.addStandardDefs(); err != nil {
			panic("registering builtin elements: " + err.Error())
		}
	}
	if err := c.addProtectedDefs(); err != nil {
		panic("registering protected elements: " + err.Error())
	}
	return c
}

// Config returns the settings this context was created with.
func (c *Context) Config() Config {
	return c.config
}

// BaseNamespace returns the identifier prefix for generated IDs.
func (c *Context) BaseNamespace() string {
	if c.config.BaseNamespace != "" {
		return c.config.BaseNamespace
	}
	return DefaultBaseNamespace
}

// addProtectedDefs registers the combinators needed for rewriting
// conditioned policies. They live under a namespace no source file can
// declare and must always be present.
func (c *Context) addProtectedDefs() *alfaErrors.Error {
	slog.Debug("adding protected elements", "namespace", ast.ProtectedNS)
	for _, p := range ast.ProtectedPolicyCombinators() {
		if err := c.RegisterPolicyCombinator(p); err != nil {
			return err
		}
	}
	for _, r := range ast.ProtectedRuleCombinators() {
		if err := c.RegisterRuleCombinator(r); err != nil {
			return err
		}
	}
	return nil
}

// addStandardDefs registers the default XACML 3.0 types, categories,
// algorithms, attributes, functions, and operators under _A2X, and puts
// a wildcard import of _A2X in scope for every namespace.
func (c *Context) addStandardDefs() *alfaErrors.Error {
	slog.Debug("adding standard elements", "namespace", ast.SystemNS)
	c.RegisterImport([]string{ast.SystemNS}, &ast.Import{
		Components: []string{ast.SystemNS},
		Wildcard:   true,
	})
	for _, t := range ast.StandardTypes() {
		if err := c.RegisterType(t); err != nil {
			return err
		}
	}
	for _, r := range ast.StandardRuleCombinators() {
		if err := c.RegisterRuleCombinator(r); err != nil {
			return err
		}
	}
	for _, p := range ast.StandardPolicyCombinators() {
		if err := c.RegisterPolicyCombinator(p); err != nil {
			return err
		}
	}
	for _, cat := range ast.StandardCategories() {
		if err := c.RegisterCategory(cat); err != nil {
			return err
		}
	}
	for _, o := range ast.StandardInfixOperators() {
		if err := c.RegisterInfix(o); err != nil {
			return err
		}
	}
	for _, a := range ast.StandardAttributes() {
		if err := c.RegisterAttribute(a); err != nil {
			return err
		}
	}
	for _, f := range ast.StandardFunctions() {
		if err := c.RegisterFunction(f); err != nil {
			return err
		}
	}
	return nil
}

// RegisterImport records an import statement for a namespace.
func (c *Context) RegisterImport(ns []string, imp *ast.Import) {
	key := strings.Join(ns, ".")
	c.imports[key] = append(c.imports[key], imp)
}

// getImports returns the imports in effect at a namespace: its own
// declared imports followed by the system defaults. The system imports
// come last so a namespace's own imports are consulted first, but they
// are never shadowed away.
func (c *Context) getImports(sourceNS []string) []*ast.Import {
	systemImports := c.imports[ast.SystemNS]
	atNS, ok := c.imports[strings.Join(sourceNS, ".")]
	if !ok {
		return systemImports
	}
	combined := make([]*ast.Import, 0, len(atNS)+len(systemImports))
	combined = append(combined, atNS...)
	combined = append(combined, systemImports...)
	return combined
}

// NextRuleID returns a namespace-scoped counter value for naming
// anonymous rules. The first request in a namespace yields 0.
func (c *Context) NextRuleID(ns string) int {
	return nextCounter(c.ruleIDs, ns)
}

// NextPolicyID returns a namespace-scoped counter value for naming
// anonymous policies.
func (c *Context) NextPolicyID(ns string) int {
	return nextCounter(c.policyIDs, ns)
}

// NextPolicySetID returns a namespace-scoped counter value for naming
// anonymous policy sets.
func (c *Context) NextPolicySetID(ns string) int {
	return nextCounter(c.policysetIDs, ns)
}

func nextCounter(m map[string]int, ns string) int {
	if v, ok := m[ns]; ok {
		m[ns] = v + 1
		return v + 1
	}
	m[ns] = 0
	return 0
}

// PolicyNameExists reports whether a policy with the given name is
// registered in the given namespace. Generated names must skip over
// names the source already claimed.
func (c *Context) PolicyNameExists(symbol string, ns []string) bool {
	return c.policies.ExistsFQ(strings.Join(ns, ".") + "." + symbol)
}

// RegisterRuleCombinator adds a rule combining algorithm declaration.
func (c *Context) RegisterRuleCombinator(elem *ast.RuleCombinator) *alfaErrors.Error {
	return c.ruleCombinators.Register(elem.FullyQualifiedName(), elem)
}

// LookupRuleCombinator resolves a rule combining algorithm reference.
func (c *Context) LookupRuleCombinator(symbol string, sourceNS []string, loc ast.Location) (*ast.RuleCombinator, *alfaErrors.Error) {
	return c.ruleCombinators.Lookup(symbol, sourceNS, loc, c.getImports(sourceNS))
}

// RegisterPolicyCombinator adds a policy combining algorithm declaration.
func (c *Context) RegisterPolicyCombinator(elem *ast.PolicyCombinator) *alfaErrors.Error {
	return c.policyCombinators.Register(elem.FullyQualifiedName(), elem)
}

// LookupPolicyCombinator resolves a policy combining algorithm reference.
func (c *Context) LookupPolicyCombinator(symbol string, sourceNS []string) (*ast.PolicyCombinator, *alfaErrors.Error) {
	return c.policyCombinators.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterType adds a type definition.
func (c *Context) RegisterType(elem *ast.TypeDef) *alfaErrors.Error {
	return c.typedefs.Register(elem.FullyQualifiedName(), elem)
}

// LookupType resolves a type reference.
func (c *Context) LookupType(symbol string, sourceNS []string) (*ast.TypeDef, *alfaErrors.Error) {
	return c.typedefs.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterFunction adds a function declaration.
func (c *Context) RegisterFunction(elem *ast.Function) *alfaErrors.Error {
	return c.functions.Register(elem.FullyQualifiedName(), elem)
}

// LookupFunction resolves a function reference.
func (c *Context) LookupFunction(symbol string, sourceNS []string) (*ast.Function, *alfaErrors.Error) {
	return c.functions.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterInfix adds an infix operator declaration.
func (c *Context) RegisterInfix(elem *ast.Infix) *alfaErrors.Error {
	return c.infixOps.Register(elem.FullyQualifiedName(), elem)
}

// LookupInfix resolves an infix operator reference.
func (c *Context) LookupInfix(symbol string, sourceNS []string) (*ast.Infix, *alfaErrors.Error) {
	return c.infixOps.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// LookupInfixInverse resolves the declared inverse of an infix
// operator, looked up from the same location as the operator itself.
func (c *Context) LookupInfixInverse(symbol string, sourceNS []string) (*ast.Infix, *alfaErrors.Error) {
	op, err := c.LookupInfix(symbol, sourceNS)
	if err != nil {
		return nil, err
	}
	if op.Inverse == "" {
		return nil, alfaErrors.Newf(alfaErrors.ErrorTypeInverseNotFound,
			"infix operator '%s' declares no inverse", symbol)
	}
	return c.LookupInfix(op.Inverse, sourceNS)
}

// RegisterAdvice adds an advice declaration.
func (c *Context) RegisterAdvice(elem *ast.AdviceDef) *alfaErrors.Error {
	return c.advice.Register(elem.FullyQualifiedName(), elem)
}

// LookupAdvice resolves an advice reference.
func (c *Context) LookupAdvice(symbol string, sourceNS []string) (*ast.AdviceDef, *alfaErrors.Error) {
	return c.advice.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterObligation adds an obligation declaration.
func (c *Context) RegisterObligation(elem *ast.ObligationDef) *alfaErrors.Error {
	return c.obligations.Register(elem.FullyQualifiedName(), elem)
}

// LookupObligation resolves an obligation reference.
func (c *Context) LookupObligation(symbol string, sourceNS []string) (*ast.ObligationDef, *alfaErrors.Error) {
	return c.obligations.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterAttribute adds an attribute declaration.
func (c *Context) RegisterAttribute(elem *ast.Attribute) *alfaErrors.Error {
	return c.attributes.Register(elem.FullyQualifiedName(), elem)
}

// LookupAttribute resolves an attribute reference.
func (c *Context) LookupAttribute(symbol string, sourceNS []string) (*ast.Attribute, *alfaErrors.Error) {
	return c.attributes.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterCategory adds a category declaration.
func (c *Context) RegisterCategory(elem *ast.Category) *alfaErrors.Error {
	return c.categories.Register(elem.FullyQualifiedName(), elem)
}

// LookupCategory resolves a category reference.
func (c *Context) LookupCategory(symbol string, sourceNS []string) (*ast.Category, *alfaErrors.Error) {
	return c.categories.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// RegisterRule adds a rule definition.
func (c *Context) RegisterRule(elem *ast.RuleDef) *alfaErrors.Error {
	fq, _ := elem.FullyQualifiedName()
	return c.rules.Register(fq, elem)
}

// LookupRule resolves a rule reference.
func (c *Context) LookupRule(symbol string, sourceNS []string, loc ast.Location) (*ast.RuleDef, *alfaErrors.Error) {
	return c.rules.Lookup(symbol, sourceNS, loc, c.getImports(sourceNS))
}

// RegisterPolicySet adds a policy set and, recursively, every inline
// policy and policy set it contains. A policy and a policy set may not
// share a fully-qualified name; references to the pair would have no
// unambiguous resolution.
func (c *Context) RegisterPolicySet(elem *ast.PolicySet) *alfaErrors.Error {
	for _, entry := range elem.Policies {
		switch {
		case entry.Policy != nil:
			if err := c.RegisterPolicy(entry.Policy); err != nil {
				return err
			}
		case entry.PolicySet != nil:
			if err := c.RegisterPolicySet(entry.PolicySet); err != nil {
				return err
			}
		}
	}
	if err := c.claimURI(elem.ID); err != nil {
		return err
	}
	if fq, ok := elem.FullyQualifiedName(); ok && c.policies.ExistsFQ(fq) {
		return alfaErrors.Newf(alfaErrors.ErrorTypeDuplicatePolicyEntity,
			"a policy and a policy set share the name '%s'", fq)
	}
	fq, _ := elem.FullyQualifiedName()
	return c.policysets.Register(fq, elem)
}

// RegisterPolicy adds a policy definition.
func (c *Context) RegisterPolicy(elem *ast.Policy) *alfaErrors.Error {
	if err := c.claimURI(elem.ID); err != nil {
		return err
	}
	if fq, ok := elem.FullyQualifiedName(); ok && c.policysets.ExistsFQ(fq) {
		return alfaErrors.Newf(alfaErrors.ErrorTypeDuplicatePolicyEntity,
			"a policy and a policy set share the name '%s'", fq)
	}
	fq, _ := elem.FullyQualifiedName()
	return c.policies.Register(fq, elem)
}

// claimURI records an explicitly assigned identifier URI so a second
// element cannot reuse it.
func (c *Context) claimURI(id ast.PolicyID) *alfaErrors.Error {
	if id.Kind != ast.PolicyNamedWithID {
		return nil
	}
	if _, taken := c.usedURIs[id.URI]; taken {
		return alfaErrors.Newf(alfaErrors.ErrorTypeDuplicateURI,
			"identifier URI assigned twice: '%s'", id.URI)
	}
	c.usedURIs[id.URI] = struct{}{}
	return nil
}

// LookupPolicySet resolves a policy set reference.
func (c *Context) LookupPolicySet(symbol string, sourceNS []string) (*ast.PolicySet, *alfaErrors.Error) {
	return c.policysets.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// LookupPolicy resolves a policy reference.
func (c *Context) LookupPolicy(symbol string, sourceNS []string) (*ast.Policy, *alfaErrors.Error) {
	return c.policies.Lookup(symbol, sourceNS, ast.Location{}, c.getImports(sourceNS))
}

// ConstantToTypedLiteral converts a literal to its lexical value and
// data type URI. Custom-typed literals need the namespace the literal
// appeared in, so the type short name resolves through the right
// imports.
func (c *Context) ConstantToTypedLiteral(con ast.Constant, sourceNS []string) (TypedLiteral, *alfaErrors.Error) {
	if uri, ok := con.BuiltinTypeURI(); ok {
		return TypedLiteral{TypeURI: uri, Value: con.Lexical()}, nil
	}
	t, err := c.LookupType(con.CustomTypeName(), sourceNS)
	if err != nil {
		return TypedLiteral{}, err
	}
	return TypedLiteral{TypeURI: t.URI, Value: con.Lexical()}, nil
}

// SerializeBuiltins writes every registered element under the system
// namespace as ALFA source, grouped by kind and sorted by name. The
// output is itself valid ALFA.
func (c *Context) SerializeBuiltins(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "namespace %s {\n", ast.SystemNS); err != nil {
		return err
	}
	section := func(title string) error {
		_, err := fmt.Fprintf(w, "\n  /** %s **/\n\n", title)
		return err
	}
	if err := section("Categories"); err != nil {
		return err
	}
	for _, cat := range c.categories.Elements() {
		if _, err := io.WriteString(w, cat.AsAlfa(1)); err != nil {
			return err
		}
	}
	if err := section("Type Definitions"); err != nil {
		return err
	}
	for _, t := range c.typedefs.Elements() {
		if _, err := io.WriteString(w, t.AsAlfa(1)); err != nil {
			return err
		}
	}
	if err := section("Attributes"); err != nil {
		return err
	}
	for _, a := range c.attributes.Elements() {
		if _, err := io.WriteString(w, a.AsAlfa(1)+"\n"); err != nil {
			return err
		}
	}
	if err := section("Policy Combining Algorithms"); err != nil {
		return err
	}
	for _, p := range c.policyCombinators.Elements() {
		if _, err := io.WriteString(w, p.AsAlfa(1)); err != nil {
			return err
		}
	}
	if err := section("Rule Combining Algorithms"); err != nil {
		return err
	}
	for _, r := range c.ruleCombinators.Elements() {
		if _, err := io.WriteString(w, r.AsAlfa(1)); err != nil {
			return err
		}
	}
	if err := section("Functions"); err != nil {
		return err
	}
	for _, f := range c.functions.Elements() {
		if _, err := io.WriteString(w, f.AsAlfa(1)); err != nil {
			return err
		}
	}
	if err := section("Infix Operators"); err != nil {
		return err
	}
	for _, op := range c.infixOps.Elements() {
		if _, err := io.WriteString(w, op.AsAlfa(1)+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
