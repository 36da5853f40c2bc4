package analyze

import "strings"

// trustWindowRunes bounds how much page text the trust heuristics read.
// Product pages bury recommendation carousels and footer boilerplate past
// this point, which only adds noise to the keyword counts.
const trustWindowRunes = 4000

var recencyMarkers = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan ", "feb ", "mar ", "apr ", "jun ", "jul ", "aug ", "sep ", "oct ", "nov ", "dec ",
	"days ago", "day ago", "weeks ago", "week ago", "months ago", "month ago",
}

var authenticReviewMarkers = []string{
	"defect", "damage", "broken", "packaging", "delivery", "service",
	"customer care", "return", "refund", "issue", "problem", "complaint",
	"shipped", "arrived", "received", "quality", "build quality",
}

var genericPraiseMarkers = []string{
	"excellent product", "great product", "amazing product", "superb product",
	"highly recommend", "worth buying", "must buy", "very good", "fantastic",
}

var hypeMarkers = []string{
	"best ever", "100% recommended", "life changing", "miracle product",
	"perfect in every way", "flawless", "zero complaints",
}

const verifyManually = "Heuristic assessment; recommend verifying key details manually."

func analyzeTrust(text, domain string, price *Price) (TrustScores, TrustReasons) {
	runes := []rune(text)
	if len(runes) > trustWindowRunes {
		text = string(runes[:trustWindowRunes])
	}
	lower := strings.ToLower(text)

	scores := TrustScores{DealTruth: 70, ReviewIntegrity: 70, StoreSafety: 80}
	reasons := TrustReasons{}

	// Deal truth: is the quoted discount anchored to anything?
	if price == nil {
		scores.DealTruth -= 15
		reasons.Deal = append(reasons.Deal, "No clear price found on the page.")
	}
	hasDiscount := containsAny(lower, "% off", "discount", "sale")
	hasReference := containsAny(lower, "mrp", "list price", "was", "previous price")
	switch {
	case hasDiscount && !hasReference:
		scores.DealTruth -= 10
		reasons.Deal = append(reasons.Deal, "Discount claimed without a visible reference price (MRP/list price).")
	case hasDiscount && hasReference:
		reasons.Deal = append(reasons.Deal, "Discount/reference pricing signals present.")
	default:
		reasons.Deal = append(reasons.Deal, "No strong discount language detected.")
	}

	// Review integrity. The section check and the content checks are
	// independent deltas on the baseline; review-like text without the word
	// "review" still earns or loses points on its own merits.
	points := 0
	var signals []string
	if containsAny(lower, "review", "rating", "stars") {
		signals = append(signals, "Review section detected")
	} else {
		scores.ReviewIntegrity -= 15
		reasons.Review = append(reasons.Review, "No review section detected on the page.")
	}

	if containsAny(lower, recencyMarkers...) {
		points += 5
		signals = append(signals, "Recent review activity")
	} else {
		points -= 5
		reasons.Review = append(reasons.Review, "No recent review dates visible.")
	}

	switch hits := countHits(lower, authenticReviewMarkers); {
	case hits >= 3:
		points += 10
		signals = append(signals, "Reviews mention concrete experiences")
	case hits >= 1:
		points += 5
		signals = append(signals, "Some concrete detail in reviews")
	default:
		points -= 5
		reasons.Review = append(reasons.Review, "Reviews lack concrete product detail.")
	}

	if containsAny(lower, "verified purchase", "customer image", "customer photo",
		"uploaded", "image from", "photo from", "review photo", "review image") {
		points += 10
		signals = append(signals, "Verified purchases or customer photos present")
	} else {
		points -= 5
		reasons.Review = append(reasons.Review, "No verified-purchase or customer-photo markers.")
	}

	if countHits(lower, genericPraiseMarkers) >= 4 {
		points -= 10
		reasons.Review = append(reasons.Review, "Heavy generic praise across reviews.")
	}
	if countHits(lower, hypeMarkers) >= 2 {
		points -= 10
		reasons.Review = append(reasons.Review, "Exaggerated hype language in reviews.")
	}

	scores.ReviewIntegrity += points
	if len(signals) > 2 {
		signals = signals[:2]
	}
	reasons.Review = append(reasons.Review, signals...)

	// Store safety.
	if countHits(lower, []string{"limited time", "act now", "only today", "hurry", "last chance"}) >= 3 {
		scores.StoreSafety -= 10
		reasons.Safety = append(reasons.Safety, "Aggressive urgency tactics on the page.")
	} else {
		reasons.Safety = append(reasons.Safety, "No aggressive urgency tactics detected.")
	}
	for _, tld := range []string{".xyz", ".top", ".click"} {
		if strings.HasSuffix(domain, tld) {
			scores.StoreSafety -= 10
			reasons.Safety = append(reasons.Safety, "Domain uses a TLD common in throwaway shops.")
			break
		}
	}

	scores.DealTruth = clampScore(scores.DealTruth)
	scores.ReviewIntegrity = clampScore(scores.ReviewIntegrity)
	scores.StoreSafety = clampScore(scores.StoreSafety)

	for _, list := range []*[]string{&reasons.Deal, &reasons.Review, &reasons.Safety} {
		for len(*list) < 2 {
			*list = append(*list, verifyManually)
		}
	}
	return scores, reasons
}
