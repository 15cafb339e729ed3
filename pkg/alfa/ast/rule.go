package ast

import (
	"fmt"
	"strings"

	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// Effect is the effect of a rule, obligation, or advice.
type Effect int

const (
	EffectPermit Effect = iota
	EffectDeny
)

// String returns the XACML effect name.
func (e Effect) String() string {
	if e == EffectDeny {
		return "Deny"
	}
	return "Permit"
}

// IDContext supplies the naming services AST nodes need when finalizing
// generated identifiers. The compiler's Context implements it.
type IDContext interface {
	// BaseNamespace is the URI prefix for generated policy identifiers.
	BaseNamespace() string
	// NextRuleID returns the next per-namespace rule counter value.
	NextRuleID(ns string) int
	// NextPolicyID returns the next per-namespace policy counter value.
	NextPolicyID(ns string) int
	// NextPolicySetID returns the next per-namespace policyset counter value.
	NextPolicySetID(ns string) int
	// PolicyNameExists reports whether the symbol resolves to a
	// registered policy from the given namespace.
	PolicyNameExists(symbol string, ns []string) bool
}

// RuleEntry is a rule inside a policy: either an inline definition or a
// reference to a rule defined elsewhere. Exactly one field is set.
type RuleEntry struct {
	Def *RuleDef
	Ref *RuleReference
}

// RuleReference names a rule defined elsewhere.
type RuleReference struct {
	ID  string
	NS  []string
	Loc Location
}

// RuleDef is an inline rule definition. Rule names are optional; ID is
// "" for anonymous rules.
type RuleDef struct {
	ID string
	NS []string
	// PolicyNS is the name-slot path of the enclosing policies.
	PolicyNS      GenName
	Description   string
	Effect        Effect
	Target        *Target
	Condition     *Condition
	Prescriptions []Prescription
	Loc           Location
}

// FullyQualifiedName returns the dotted namespace- and policy-qualified
// rule name, or "" and false for anonymous rules or unresolvable paths.
func (r *RuleDef) FullyQualifiedName() (string, bool) {
	if r.ID == "" {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(r.NS, "."))
	if len(r.NS) > 0 {
		sb.WriteString(".")
	}
	if r.PolicyNS.PolicyLevel() > 0 {
		if path, ok := r.PolicyNS.BuildPath("."); ok {
			sb.WriteString(path)
			sb.WriteString(".")
		}
	}
	sb.WriteString(r.ID)
	return sb.String(), true
}

// GetID builds the XACML RuleId. Rules cannot carry explicit IDs in ALFA,
// so the ID combines the base namespace, the rule's namespace, the
// enclosing policy path, and either the rule name or a generated
// `#rule_<n>` fragment.
func (r *RuleDef) GetID(ctx IDContext) (string, error) {
	path, ok := r.PolicyNS.BuildPath("/")
	if !ok {
		return "", alfaErrors.New(alfaErrors.ErrorTypeConvert,
			"Rule has an unresolved policy path; cannot derive an identifier", r.Loc)
	}
	var sb strings.Builder
	sb.WriteString(ctx.BaseNamespace())
	sb.WriteString(strings.Join(r.NS, "/"))
	if path != "" {
		sb.WriteString("/")
		sb.WriteString(path)
	}
	if r.ID == "" {
		sb.WriteString(fmt.Sprintf("#rule_%d", ctx.NextRuleID(strings.Join(r.NS, "."))))
	} else {
		sb.WriteString("/")
		sb.WriteString(r.ID)
	}
	return sb.String(), nil
}
