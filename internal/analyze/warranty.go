package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var warrantyDurationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)\s*(?:warranty|guarantee)`),
	regexp.MustCompile(`(\d+)\s*(?:months?|mos?)\s*(?:warranty|guarantee)`),
	regexp.MustCompile(`(?:warranty|guarantee)[:\s-]*(\d+)\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(?:warranty|guarantee)[:\s-]*(\d+)\s*(?:months?|mos?)`),
	regexp.MustCompile(`(\d+)-(?:years?|yrs?)\s*(?:warranty|guarantee)`),
	regexp.MustCompile(`(\d+)-(?:months?|mos?)\s*(?:warranty|guarantee)`),
}

// monthsFromMatch normalizes a duration capture to months. Patterns that
// mention years multiply by 12; the pattern index tells us which unit the
// capture carries.
func monthsFromMatch(patternIdx, n int) int {
	switch patternIdx {
	case 0, 2, 4:
		return n * 12
	default:
		return n
	}
}

// readableDuration renders a month count the way listings phrase it, so the
// report can echo "2 years" rather than "24 months".
func readableDuration(months int) string {
	if months >= 12 {
		years := months / 12
		rem := months % 12
		plural := ""
		if years > 1 {
			plural = "s"
		}
		if rem > 0 {
			return fmt.Sprintf("%d year%s %d month", years, plural, rem)
		}
		return fmt.Sprintf("%d year%s", years, plural)
	}
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}

func analyzeWarranty(text string) Warranty {
	lower := strings.ToLower(text)
	w := Warranty{
		ServiceCenters: ServiceCentersNotMentioned,
	}
	score := 50

	// Longest claim wins when a page quotes several durations.
	maxMonths := 0
	for i, re := range warrantyDurationPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if months := monthsFromMatch(i, n); months > maxMonths {
				maxMonths = months
			}
		}
	}
	if maxMonths > 0 {
		w.DurationMonths = intPtr(maxMonths)
		w.Readable = readableDuration(maxMonths)
		switch {
		case maxMonths >= 24:
			score += 30
			w.Highlights = append(w.Highlights, fmt.Sprintf("%s warranty (excellent)", w.Readable))
		case maxMonths >= 12:
			score += 20
			w.Highlights = append(w.Highlights, fmt.Sprintf("%s warranty (good)", w.Readable))
		case maxMonths >= 6:
			score += 10
			w.Highlights = append(w.Highlights, fmt.Sprintf("%s warranty", w.Readable))
		default:
			score += 5
			w.Highlights = append(w.Highlights, fmt.Sprintf("Only %s warranty (short)", w.Readable))
		}
	} else {
		w.Highlights = append(w.Highlights, "Warranty duration not clearly stated")
	}

	score = foldRules(lower, score, []scoreRule{
		{
			match: anyOf("brand warranty", "manufacturer warranty", "company warranty", "official warranty"),
			delta: 15,
			note:  "Brand/Manufacturer warranty",
			effect: func() {
				w.Types = append(w.Types, "brand")
			},
		},
		{
			match: anyOf("seller warranty", "platform warranty", "amazon fulfilled", "flipkart assured"),
			delta: 8,
			note:  "Seller warranty included",
			effect: func() {
				w.Types = append(w.Types, "seller")
			},
		},
	}, &w.Highlights)
	if len(w.Types) == 0 {
		w.Types = append(w.Types, "unknown")
		score -= 5
	}

	if containsAny(lower,
		"service center", "service centre", "authorized service", "repair center",
		"customer service center", "after sales service", "service network",
		"nationwide service", "pan india service") {
		w.ServiceCenters = ServiceCentersAvailable
		score += 15
		w.Highlights = append(w.Highlights, "Service centers available")
		if containsAny(lower, "nationwide", "pan india", "all cities", "across india") {
			score += 5
			w.Highlights = append(w.Highlights, "Nationwide service network")
		}
	} else {
		w.Highlights = append(w.Highlights, "Service center availability not mentioned")
	}

	score = foldRules(lower, score, []scoreRule{
		{
			match: anyOf("free installation", "installation service", "installation support",
				"installation included", "demo", "setup", "on-site installation"),
			delta: 10,
			note:  "Installation/setup support available",
			effect: func() {
				w.Installation = true
			},
		},
		{
			match: anyOf("official store", "brand store", "authorized seller", "authorized dealer"),
			delta: 15,
			note:  "Sold via official/authorized channel",
		},
		{
			match: anyOf("extended warranty", "additional warranty", "warranty extension"),
			delta: 5,
			note:  "Extended warranty option available",
		},
	}, &w.Highlights)

	w.SupportScore = clampScore(score)
	return w
}
