package ast

func makeStdRuleComb(id, alg string) *RuleCombinator {
	return &RuleCombinator{ID: id, URI: alg, NS: []string{SystemNS}}
}

func makeStdPolicyComb(id, alg string) *PolicyCombinator {
	return &PolicyCombinator{ID: id, URI: alg, NS: []string{SystemNS}}
}

// ProtectedRuleCombinators returns the internal rule combinators the
// compiler depends on. They are registered under the protected namespace
// even when builtins are disabled.
func ProtectedRuleCombinators() []*RuleCombinator {
	return []*RuleCombinator{
		{
			ID:  "permitOverrides",
			URI: "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:permit-overrides",
			NS:  []string{ProtectedNS},
		},
	}
}

// ProtectedPolicyCombinators returns the internal policy combinators the
// compiler depends on; deconditioning emits references to them.
func ProtectedPolicyCombinators() []*PolicyCombinator {
	return []*PolicyCombinator{
		{
			ID:  "permitOverrides",
			URI: "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:permit-overrides",
			NS:  []string{ProtectedNS},
		},
		{
			ID:  "onPermitApplySecond",
			URI: "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:on-permit-apply-second",
			NS:  []string{ProtectedNS},
		},
	}
}

// StandardRuleCombinators returns the builtin rule-combining algorithms
// from XACML spec 10.2.3.
func StandardRuleCombinators() []*RuleCombinator {
	return []*RuleCombinator{
		makeStdRuleComb("denyOverrides", "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:deny-overrides"),
		makeStdRuleComb("denyUnlessPermit", "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:deny-unless-permit"),
		makeStdRuleComb("firstApplicable", "urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:first-applicable"),
		makeStdRuleComb("orderedDenyOverrides", "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:ordered-deny-overrides"),
		makeStdRuleComb("orderedPermitOverrides", "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:ordered-permit-overrides"),
		makeStdRuleComb("permitUnlessDeny", "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:permit-unless-deny"),
		makeStdRuleComb("permitOverrides", "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:permit-overrides"),
	}
}

// StandardPolicyCombinators returns the builtin policy-combining
// algorithms from XACML spec 10.2.3, plus on-permit-apply-second.
func StandardPolicyCombinators() []*PolicyCombinator {
	return []*PolicyCombinator{
		makeStdPolicyComb("denyOverrides", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:deny-overrides"),
		makeStdPolicyComb("denyUnlessPermit", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:deny-unless-permit"),
		makeStdPolicyComb("firstApplicable", "urn:oasis:names:tc:xacml:1.0:policy-combining-algorithm:first-applicable"),
		makeStdPolicyComb("onlyOneApplicable", "urn:oasis:names:tc:xacml:1.0:policy-combining-algorithm:only-one-applicable"),
		makeStdPolicyComb("orderedDenyOverrides", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:ordered-deny-overrides"),
		makeStdPolicyComb("orderedPermitOverrides", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:ordered-permit-overrides"),
		makeStdPolicyComb("permitOverrides", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:permit-overrides"),
		makeStdPolicyComb("permitUnlessDeny", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:permit-unless-deny"),
		makeStdPolicyComb("onPermitApplySecond", "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:on-permit-apply-second"),
	}
}
