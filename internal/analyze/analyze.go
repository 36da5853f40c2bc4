package analyze

import "net/url"

var (
	policyKeywords = []string{"return", "refund", "replacement", "warranty", "cancel"}
	reviewKeywords = []string{"review", "rating", "stars"}
)

// Analyze runs every heuristic over the plain text of one product page.
// pageURL is only parsed for its host; analysis never refetches anything.
func Analyze(pageURL, text string) Signals {
	domain := hostOf(pageURL)
	sig := Signals{
		URL:    pageURL,
		Domain: domain,
		Title:  titleGuess(text),
		Price:  extractPrice(text),
		Snippets: Snippets{
			ReturnPolicy: snippet(text, policyKeywords),
			Reviews:      snippet(text, reviewKeywords),
		},
	}

	sig.ReturnPolicy = analyzeReturnPolicy(text)
	sig.Warranty = analyzeWarranty(text)
	sig.HiddenCosts = analyzeHiddenCosts(text, sig.Price)
	sig.Scores, sig.Reasons = analyzeTrust(text, domain, sig.Price)
	return sig
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
