package analyze

import "regexp"

// Price patterns in priority order: rupee first, then dollar, then euro.
// The first match anywhere on the page wins.
var pricePatterns = []struct {
	currency string
	re       *regexp.Regexp
}{
	{"₹", regexp.MustCompile(`₹\s?\d[\d,]*(?:\.\d{1,2})?`)},
	{"$", regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{1,2})?`)},
	{"€", regexp.MustCompile(`€\s?\d[\d,]*(?:\.\d{1,2})?`)},
}

// extractPrice finds the page's price string, or nil when no currency
// pattern matches.
func extractPrice(text string) *Price {
	for _, p := range pricePatterns {
		if m := p.re.FindString(text); m != "" {
			return &Price{Raw: m, Currency: p.currency}
		}
	}
	return nil
}
