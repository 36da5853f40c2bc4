// Package analyze turns the plain text of one product page into a structured
// bundle of pricing and trust signals. Everything here is deliberately
// heuristic: matching is case-insensitive, absence of a signal is never an
// error, and every score is clamped to [0,100].
package analyze

import "strings"

// Price is a price string as found on the page, split into the currency
// symbol and the raw figure. Numeric parsing for ranking happens later.
type Price struct {
	Raw      string `json:"raw"`
	Currency string `json:"currency"`
}

// ReturnPolicy summarizes the page's return terms.
type ReturnPolicy struct {
	// WindowDays is the longest return window claimed anywhere on the
	// page; nil when no window was stated.
	WindowDays       *int     `json:"window_days"`
	Types            []string `json:"type"`
	Methods          []string `json:"method"`
	FlexibilityScore int      `json:"flexibility_score"`
	Highlights       []string `json:"highlights"`
}

// Warranty summarizes warranty and after-sales support terms.
type Warranty struct {
	// DurationMonths is the longest warranty claimed, in months; nil when
	// not stated. Readable is its human rendering ("2 years",
	// "1 year 6 month").
	DurationMonths *int     `json:"duration_months"`
	Readable       string   `json:"duration_text,omitempty"`
	Types          []string `json:"type"`
	ServiceCenters string   `json:"service_centers"`
	Installation   bool     `json:"installation"`
	SupportScore   int      `json:"support_score"`
	Highlights     []string `json:"highlights"`
}

// Service center availability values.
const (
	ServiceCentersAvailable    = "available"
	ServiceCentersNotMentioned = "not mentioned"
)

// HiddenCosts lists charges that inflate the final payable amount beyond the
// sticker price.
type HiddenCosts struct {
	DeliveryCharge  *float64 `json:"delivery"`
	InstallationFee *float64 `json:"installation"`
	ConvenienceFee  *float64 `json:"convenience"`
	// GSTIncluded is nil when the page says nothing about tax inclusion.
	GSTIncluded       *bool      `json:"gst_included"`
	OtherFees         []NamedFee `json:"other_fees,omitempty"`
	TotalHiddenCost   float64    `json:"total_extra"`
	TransparencyScore int        `json:"transparency_score"`
	Warnings          []string   `json:"warnings"`
}

// NamedFee is a labelled extra charge (packaging, COD and similar).
type NamedFee struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// TrustScores are the three independent 0-100 trust ratings.
type TrustScores struct {
	DealTruth       int `json:"deal_truth"`
	ReviewIntegrity int `json:"review_integrity"`
	StoreSafety     int `json:"store_safety"`
}

// TrustReasons carries the human-readable justification for each trust
// score. Each list always holds at least two entries.
type TrustReasons struct {
	Deal   []string `json:"deal"`
	Review []string `json:"review"`
	Safety []string `json:"safety"`
}

// Snippets are short page excerpts around the first policy and review
// keyword hits, kept for display.
type Snippets struct {
	ReturnPolicy string `json:"return_policy"`
	Reviews      string `json:"reviews"`
}

// Signals is the full analysis of one product page.
type Signals struct {
	URL          string       `json:"url"`
	Domain       string       `json:"domain"`
	Title        string       `json:"title_guess"`
	Price        *Price       `json:"price_guess"`
	Snippets     Snippets     `json:"snippets"`
	ReturnPolicy ReturnPolicy `json:"return_policy_analysis"`
	Warranty     Warranty     `json:"warranty_support_analysis"`
	HiddenCosts  HiddenCosts  `json:"hidden_costs_analysis"`
	Scores       TrustScores  `json:"scores"`
	Reasons      TrustReasons `json:"reasons"`
}

// containsAny reports whether lower contains at least one of the needles.
func containsAny(lower string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// countHits counts how many needles appear in lower at least once.
func countHits(lower string, needles []string) int {
	hits := 0
	for _, n := range needles {
		if strings.Contains(lower, n) {
			hits++
		}
	}
	return hits
}

// clampScore bounds a score to [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
