package analyze

// scoreRule is one ordered scoring adjustment. Rules are folded over a
// baseline in declaration order, which makes override behavior explicit:
// a later rule sees (and may replace) everything earlier rules produced.
type scoreRule struct {
	// match decides whether the rule fires against the lowercased text.
	match func(lower string) bool
	delta int
	// note is appended to the notes list when the rule fires; empty notes
	// are skipped.
	note string
	// effect runs extra mutations (tag lists and the like) when the rule
	// fires.
	effect func()
}

// foldRules applies rules in order to a starting score, collecting notes.
// The result is not clamped; callers clamp once after all adjustments.
func foldRules(lower string, score int, rules []scoreRule, notes *[]string) int {
	for _, r := range rules {
		if r.match != nil && !r.match(lower) {
			continue
		}
		score += r.delta
		if r.note != "" {
			*notes = append(*notes, r.note)
		}
		if r.effect != nil {
			r.effect()
		}
	}
	return score
}

// anyOf builds a match function over a keyword list.
func anyOf(needles ...string) func(string) bool {
	return func(lower string) bool {
		return containsAny(lower, needles...)
	}
}
