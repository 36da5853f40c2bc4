package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var returnWindowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*days?\s*(?:return|replacement|refund|exchange)`),
	regexp.MustCompile(`(?:return|replacement|refund|exchange)\s*within\s*(\d+)\s*days?`),
	regexp.MustCompile(`(\d+)[-\s]day\s*(?:return|replacement|refund)`),
}

// analyzeReturnPolicy scans for return terms. The reported window is the
// longest day count claimed anywhere, a deliberately optimistic reading of
// pages that mix several policies.
func analyzeReturnPolicy(text string) ReturnPolicy {
	lower := strings.ToLower(text)

	policy := ReturnPolicy{
		Types:   []string{},
		Methods: []string{},
	}

	var maxDays int
	for _, re := range returnWindowPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if days, err := strconv.Atoi(m[1]); err == nil && days > maxDays {
				maxDays = days
			}
		}
	}
	if maxDays > 0 {
		policy.WindowDays = intPtr(maxDays)
	}

	rules := []scoreRule{
		{
			match: anyOf("refund", "money back"),
			delta: 15,
			note:  "Full refund available",
			effect: func() { policy.Types = append(policy.Types, "refund") },
		},
		{
			match: anyOf("replacement", "exchange"),
			delta: 10,
			note:  "Replacement offered",
			effect: func() { policy.Types = append(policy.Types, "replacement") },
		},
		{
			match: anyOf("no return", "non-returnable", "final sale"),
			note:  "Non-returnable item",
		},
		{
			match: anyOf("free pickup", "free return pickup", "pickup at doorstep"),
			delta: 20,
			note:  "Free doorstep pickup",
			effect: func() { policy.Methods = append(policy.Methods, "free-pickup") },
		},
		{
			match: func(lower string) bool {
				// Plain pickup only counts when the free variant didn't.
				return strings.Contains(lower, "pickup") &&
					!containsAny(lower, "free pickup", "free return pickup", "pickup at doorstep")
			},
			delta:  10,
			effect: func() { policy.Methods = append(policy.Methods, "pickup") },
		},
		{
			match: anyOf("drop off", "dropoff", "self return", "courier"),
			effect: func() { policy.Methods = append(policy.Methods, "drop-off") },
		},
		{
			match: func(lower string) bool {
				return containsAny(lower, "drop off", "dropoff", "self return", "courier") &&
					!strings.Contains(lower, "free")
			},
			delta: -5,
		},
	}

	score := foldRules(lower, 50, rules, &policy.Highlights)
	score += windowBonus(maxDays, &policy.Highlights)

	tailRules := []scoreRule{
		{
			match: anyOf("no questions asked", "hassle free", "easy return"),
			delta: 10,
			note:  "Hassle-free returns",
		},
		{
			match: anyOf("original packaging", "unopened", "unused", "tags attached"),
			delta: -5,
			note:  "Conditions apply (packaging/tags required)",
		},
	}
	score = foldRules(lower, score, tailRules, &policy.Highlights)

	// A non-returnable item overrides every other signal: exactly one type
	// tag and a fixed floor score, no matter what else the page claims.
	if containsAny(lower, "no return", "non-returnable", "final sale") {
		policy.Types = []string{"non-returnable"}
		score = 10
	}

	policy.FlexibilityScore = clampScore(score)
	if len(policy.Highlights) == 0 {
		policy.Highlights = append(policy.Highlights, "No return policy signals detected")
	}
	return policy
}

// windowBonus rewards generous return windows with breakpoints at 30, 15,
// 10 and 7 days.
func windowBonus(days int, highlights *[]string) int {
	switch {
	case days >= 30:
		*highlights = append(*highlights, fmt.Sprintf("%d-day return window (excellent)", days))
		return 25
	case days >= 15:
		*highlights = append(*highlights, fmt.Sprintf("%d-day return window (good)", days))
		return 15
	case days >= 10:
		*highlights = append(*highlights, fmt.Sprintf("%d-day return window", days))
		return 10
	case days >= 7:
		*highlights = append(*highlights, fmt.Sprintf("Only %d-day return window (short)", days))
		return 5
	case days > 0:
		*highlights = append(*highlights, fmt.Sprintf("Very short %d-day return window", days))
		return 0
	default:
		*highlights = append(*highlights, "Return window not clearly stated")
		return 0
	}
}
