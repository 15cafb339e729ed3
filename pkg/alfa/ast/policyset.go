package ast

import (
	"fmt"
	"strings"

	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// PolicyEntry is one element of a policyset: an inline policy, an inline
// policyset, or a reference to one defined elsewhere. Exactly one field
// is set.
type PolicyEntry struct {
	Policy    *Policy
	PolicySet *PolicySet
	Ref       *PolicyReference
}

// PolicyReference names a policy or policyset defined elsewhere.
type PolicyReference struct {
	ID  string
	NS  []string
	Loc Location
}

// PolicySet is a policyset definition holding policies and policysets.
type PolicySet struct {
	ID PolicyID
	// NS is the namespace path from general to most specific.
	NS []string
	// PolicyNS is the name-slot path of the enclosing policies,
	// including this one.
	PolicyNS    GenName
	Description string
	Target      *Target
	Condition   *Condition
	// Apply is the policy-combining algorithm reference.
	Apply         CombiningAlg
	Policies      []PolicyEntry
	Prescriptions []Prescription
	Loc           Location
}

// FullyQualifiedName returns the dotted namespace- and policy-qualified
// name, or false for anonymous policysets and unresolved paths.
func (p *PolicySet) FullyQualifiedName() (string, bool) {
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
// policyset's final name, and an .xml extension.
func (p *PolicySet) GetFilename() (string, bool) {
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
// index, recursing into every inline child so generated IDs stay aligned.
func (p *PolicySet) InsertNSEntry(slot *NameSlot, idx int) {
	p.PolicyNS.PushNameAtIndex(slot, idx)
	for i := range p.Policies {
		switch {
		case p.Policies[i].Policy != nil:
			p.Policies[i].Policy.InsertNSEntry(slot, idx)
		case p.Policies[i].PolicySet != nil:
			p.Policies[i].PolicySet.InsertNSEntry(slot, idx)
		}
	}
}

// FinalizeID assigns a generated name to an anonymous policyset.
// Collision checking goes through the policy registry, the same registry
// anonymous policies check.
func (p *PolicySet) FinalizeID(ctx IDContext) error {
	last := p.PolicyNS.LastElem()
	if last == nil {
		return alfaErrors.New(alfaErrors.ErrorTypeConvert,
			"PolicySet has an empty policy path", p.Loc)
	}
	if last.IsSet() {
		return nil
	}
	for {
		next := ctx.NextPolicySetID(strings.Join(p.NS, "."))
		proposed := fmt.Sprintf("policyset_%d", next)
		if !ctx.PolicyNameExists(proposed, p.NS) {
			last.Set(proposed)
			return nil
		}
	}
}

// GetID builds the XACML PolicySetId, with the same rules as Policy.GetID.
func (p *PolicySet) GetID(ctx IDContext) string {
	path, ok := p.PolicyNS.BuildPath("/")
	if !ok {
		return "urn:uuid:" + newUUIDv7()
	}
	if p.ID.Kind == PolicyNamedWithID {
		return p.ID.URI
	}
	return ctx.BaseNamespace() + strings.Join(p.NS, "/") + "/" + path
}

// Decondition converts a conditioned policyset into a wrapper policyset:
// a `cond` policy holding the condition in a single Permit rule, combined
// on-permit-apply-second with the original policyset renamed `orig`.
// Inline children of the original have the `orig` segment spliced into
// their policy paths so their generated IDs reflect the new hierarchy.
func (p *PolicySet) Decondition() (*PolicySet, error) {
	if p.Condition == nil {
		return nil, alfaErrors.New(alfaErrors.ErrorTypePolicySetNoCondition,
			"Cannot decondition a policyset without a condition", p.Loc)
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

	container.Policies = append(container.Policies, PolicyEntry{Policy: condPolicy})

	// splice "orig" into every inline child's policy path, one level
	// above the children
	idx := original.PolicyNS.PolicyLevel() - 1
	origSlot := NewNamedSlot("orig")
	for i := range original.Policies {
		switch {
		case original.Policies[i].Policy != nil:
			original.Policies[i].Policy.InsertNSEntry(origSlot, idx)
		case original.Policies[i].PolicySet != nil:
			original.Policies[i].PolicySet.InsertNSEntry(origSlot, idx)
		}
	}

	container.Policies = append(container.Policies, PolicyEntry{PolicySet: &original})
	return container, nil
}
