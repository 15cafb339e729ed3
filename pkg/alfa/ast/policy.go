package ast

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// PolicyIDKind distinguishes the naming forms of a policy or policyset.
type PolicyIDKind int

const (
	// PolicyNoName is an anonymous policy; a name is generated at
	// finalization.
	PolicyNoName PolicyIDKind = iota
	// PolicyNamed is `policy name { ... }`.
	PolicyNamed
	// PolicyNamedWithID is `policy name = "uri" { ... }`; the URI is
	// used verbatim as the XACML identifier.
	PolicyNamedWithID
)

// PolicyID is the declared identifier of a policy or policyset.
type PolicyID struct {
	Kind PolicyIDKind
	Name string
	URI  string
}

// GetName returns the ALFA symbol for the policy if one was declared.
func (p PolicyID) GetName() (string, bool) {
	if p.Kind == PolicyNoName {
		return "", false
	}
	return p.Name, true
}

// CombiningAlg is an apply statement: a reference to a combining
// algorithm by ALFA name, with its source location for error reporting.
type CombiningAlg struct {
	ID  string
	Loc Location
}

// Policy is a policy definition holding rules.
type Policy struct {
	ID PolicyID
	// NS is the namespace path from general to most specific.
	NS []string
	// PolicyNS is the name-slot path of the enclosing policies,
	// including this one.
	PolicyNS    GenName
	Description string
	Target      *Target
	Condition   *Condition
	// Apply is the rule-combining algorithm reference.
	Apply         CombiningAlg
	Rules         []RuleEntry
	Prescriptions []Prescription
	Loc           Location
}

// FullyQualifiedName returns the dotted namespace- and policy-qualified
// name, or false for anonymous policies and unresolved paths.
func (p *Policy) FullyQualifiedName() (string, bool) {
	if p.ID.Kind == PolicyNoName {
		return "", false
	}
	path, ok := p.PolicyNS.BuildPath(".")
	if !ok {
		return "", false
	}
	return strings.Join(p.NS, ".") + "." + path, true
}

// GetFilename suggests an output filename: the dotted namespace, the
// policy's final name, and an .xml extension.
func (p *Policy) GetFilename() (string, bool) {
	last := p.PolicyNS.LastElem()
	if last == nil {
		return "", false
	}
	name, ok := last.Get()
	if !ok {
		return "", false
	}
	return strings.Join(p.NS, ".") + "." + name + ".xml", true
}

// InsertNSEntry inserts a name slot into the policy path at the given
// index. This happens when an enclosing policyset is deconditioned.
func (p *Policy) InsertNSEntry(slot *NameSlot, idx int) {
	p.PolicyNS.PushNameAtIndex(slot, idx)
}

// FinalizeID assigns a generated name to an anonymous policy. Proposed
// names come from the per-namespace counter; proposals that collide with
// a registered policy name are skipped.
func (p *Policy) FinalizeID(ctx IDContext) error {
	last := p.PolicyNS.LastElem()
	if last == nil {
		return alfaErrors.New(alfaErrors.ErrorTypeConvert,
			"Policy has an empty policy path", p.Loc)
	}
	if last.IsSet() {
		return nil
	}
	for {
		next := ctx.NextPolicyID(strings.Join(p.NS, "."))
		proposed := fmt.Sprintf("policy_%d", next)
		// covers the case of an explicitly named "policy_0", etc.
		if !ctx.PolicyNameExists(proposed, p.NS) {
			last.Set(proposed)
			return nil
		}
	}
}

// GetID builds the XACML PolicyId. An explicitly declared URI is used
// verbatim; otherwise the ID combines the base namespace, the policy's
// namespace, and its name path. An unresolvable path falls back to a
// generated urn:uuid identifier.
func (p *Policy) GetID(ctx IDContext) string {
	path, ok := p.PolicyNS.BuildPath("/")
	if !ok {
		return "urn:uuid:" + newUUIDv7()
	}
	if p.ID.Kind == PolicyNamedWithID {
		return p.ID.URI
	}
	return ctx.BaseNamespace() + strings.Join(p.NS, "/") + "/" + path
}

// Decondition converts a conditioned policy into a wrapper policyset:
// a `cond` policy holding the condition in a single Permit rule, combined
// on-permit-apply-second with the original policy renamed `orig`.
// The returned policyset adopts the receiver's rules and prescriptions.
func (p *Policy) Decondition() (*PolicySet, error) {
	if p.Condition == nil {
		return nil, alfaErrors.New(alfaErrors.ErrorTypePolicyNoCondition,
			"Cannot decondition a policy without a condition", p.Loc)
	}

	original := *p
	origID := original.ID

	container := &PolicySet{
		ID:          origID,
		NS:          original.NS,
		PolicyNS:    p.PolicyNS.Clone(),
		Description: original.Description,
		Apply:       CombiningAlg{ID: ProtectedNS + ".onPermitApplySecond", Loc: p.Apply.Loc},
		Loc:         p.Loc,
	}
	original.Description = ""

	condPolicyNS := container.PolicyNS.Clone()
	condPolicyNS.PushName(NewNamedSlot("cond"))

	origPolicyNS := container.PolicyNS.Clone()
	origPolicyNS.PushName(NewNamedSlot("orig"))
	original.PolicyNS = origPolicyNS
	original.ID = PolicyID{Kind: PolicyNamed, Name: "orig"}

	condRule := &RuleDef{
		NS:        original.NS,
		PolicyNS:  condPolicyNS.Clone(),
		Effect:    EffectPermit,
		Condition: original.Condition,
		Loc:       p.Loc,
	}
	original.Condition = nil

	condPolicy := &Policy{
		ID:       PolicyID{Kind: PolicyNamed, Name: "cond"},
		NS:       original.NS,
		PolicyNS: condPolicyNS,
		Apply:    CombiningAlg{ID: ProtectedNS + ".permitOverrides", Loc: p.Apply.Loc},
		Rules:    []RuleEntry{{Def: condRule}},
		Loc:      p.Loc,
	}

	container.Policies = append(container.Policies,
		PolicyEntry{Policy: condPolicy},
		PolicyEntry{Policy: &original},
	)
	return container, nil
}

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source does
		return uuid.New().String()
	}
	return id.String()
}
