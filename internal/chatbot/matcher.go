package chatbot

import "strings"

// Rule pairs an ordered keyword set with a canned response.
type Rule struct {
	Keywords []string
	Response string
}

// Matcher maps free-text input to canned responses. Rules are evaluated in
// declaration order and, within a rule, keywords in declaration order; the
// first keyword found as a substring of the normalized input wins. Substring
// matching means a short keyword inside a longer phrase can select an
// earlier rule; that ambiguity is part of the contract.
type Matcher struct {
	rules    []Rule
	fallback string
}

// NewMatcher builds a matcher over the given rules.
func NewMatcher(rules []Rule, fallback string) *Matcher {
	return &Matcher{rules: rules, fallback: fallback}
}

// Respond returns the canned response for the first matching rule, or the
// fallback when nothing matches.
func (m *Matcher) Respond(input string) string {
	normalized := Normalize(input)
	for _, rule := range m.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, keyword) {
				return rule.Response
			}
		}
	}
	return m.fallback
}
