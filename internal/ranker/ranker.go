// Package ranker orders analyzed listings and picks the best deal. Ranking
// blends trust and price: a cheap listing from a shady page should not beat
// a slightly dearer one with clean signals.
package ranker

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/analyze"
)

// Weights for the combined score. Trust dominates price.
const (
	trustWeight = 0.6
	priceWeight = 0.4
)

var numericRe = regexp.MustCompile(`[\d,]+`)

// Ranked is one listing with its derived ranking figures.
type Ranked struct {
	analyze.Signals

	PriceNumeric  float64 `json:"price_numeric"`
	AvgTrustScore float64 `json:"avg_trust_score"`
	CombinedScore float64 `json:"combined_score"`
}

// Rank sorts listings by price ascending and picks the best deal by
// combined trust/price score. Listings without a parseable price are
// dropped from both outputs. Best is nil when nothing survives.
func Rank(listings []analyze.Signals) (sorted []Ranked, best *Ranked) {
	var priced []Ranked
	maxPrice := 0.0
	for _, s := range listings {
		p, ok := priceValue(s.Price)
		if !ok {
			continue
		}
		r := Ranked{
			Signals:       s,
			PriceNumeric:  p,
			AvgTrustScore: avgTrust(s.Scores),
		}
		priced = append(priced, r)
		if p > maxPrice {
			maxPrice = p
		}
	}
	if len(priced) == 0 {
		return nil, nil
	}

	for i := range priced {
		priceScore := 0.0
		if maxPrice > 0 {
			priceScore = (1 - priced[i].PriceNumeric/maxPrice) * 100
		}
		priced[i].CombinedScore = trustWeight*priced[i].AvgTrustScore + priceWeight*priceScore
	}

	// First maximum wins, so ties resolve to the earlier listing.
	bestIdx := 0
	for i := 1; i < len(priced); i++ {
		if priced[i].CombinedScore > priced[bestIdx].CombinedScore {
			bestIdx = i
		}
	}
	chosen := priced[bestIdx]

	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].PriceNumeric < priced[j].PriceNumeric
	})
	return priced, &chosen
}

// priceValue extracts the integer-and-commas portion of a raw price. The
// decimal part is discarded; rupee prices rarely carry meaningful paise.
func priceValue(p *analyze.Price) (float64, bool) {
	if p == nil {
		return 0, false
	}
	m := numericRe.FindString(p.Raw)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func avgTrust(s analyze.TrustScores) float64 {
	return float64(s.DealTruth+s.ReviewIntegrity+s.StoreSafety) / 3
}
