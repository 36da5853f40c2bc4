// Package report renders a finished comparison run as JSON or readable
// text. The JSON schema is the tool's stable output contract; the text
// form is a console summary of the same data.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/analyze"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/ranker"
)

// Listing is one analyzed product in the report, trimmed to what a reader
// compares across sites.
type Listing struct {
	Site   string      `json:"site"`
	URL    string      `json:"url"`
	Price  string      `json:"price"`
	Scores TrustBlock  `json:"scores"`
	Title  string      `json:"title"`
	Return ReturnBlock `json:"return_policy"`
	W      Warranty    `json:"warranty"`
	Costs  CostBlock   `json:"hidden_costs"`
}

type TrustBlock struct {
	DealTruth       int `json:"deal_truth"`
	ReviewIntegrity int `json:"review_integrity"`
	StoreSafety     int `json:"store_safety"`
}

type ReturnBlock struct {
	WindowDays       *int     `json:"window_days"`
	Type             []string `json:"type"`
	Method           []string `json:"method"`
	FlexibilityScore int      `json:"flexibility_score"`
	Highlights       []string `json:"highlights"`
}

type Warranty struct {
	DurationMonths *int     `json:"duration_months"`
	Type           []string `json:"type"`
	ServiceCenters string   `json:"service_centers"`
	Installation   bool     `json:"installation"`
	SupportScore   int      `json:"support_score"`
	Highlights     []string `json:"highlights"`
}

type CostBlock struct {
	Delivery          *float64 `json:"delivery"`
	Installation      *float64 `json:"installation"`
	TotalExtra        float64  `json:"total_extra"`
	TransparencyScore int      `json:"transparency_score"`
	Warnings          []string `json:"warnings"`
}

// BestDeal is the winning listing annotated with its ranking figures.
type BestDeal struct {
	Listing

	CombinedScore float64 `json:"combined_score"`
	PriceNumeric  float64 `json:"price_numeric"`
	AvgTrustScore float64 `json:"avg_trust_score"`
}

// Status summarizes how the search itself went, independent of what was
// found.
type Status struct {
	TotalSites      int     `json:"total_sites"`
	SuccessfulSites int     `json:"successful_sites"`
	ProductsFound   int     `json:"products_found"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Report is the complete output of one comparison run.
type Report struct {
	Product       string    `json:"product"`
	Results       []Listing `json:"results"`
	BestDeal      *BestDeal `json:"best_deal"`
	SitesChecked  int       `json:"sites_checked"`
	SitesFound    int       `json:"sites_found"`
	TotalProducts int       `json:"total_products"`
	// ElapsedTime is wall-clock seconds for the whole run.
	ElapsedTime  float64 `json:"elapsed_time"`
	SearchStatus Status  `json:"search_status"`
}

// Build assembles the report. all is every analyzed listing and drives the
// counts; ranked is the priced subset that becomes the results list.
// sitesChecked is how many sources the run queried; elapsed covers the
// whole run.
func Build(product string, all []analyze.Signals, ranked []ranker.Ranked, best *ranker.Ranked, sitesChecked int, elapsed time.Duration) Report {
	r := Report{
		Product:      product,
		Results:      []Listing{},
		SitesChecked: sitesChecked,
	}

	for i := range ranked {
		r.Results = append(r.Results, toListing(&ranked[i].Signals))
	}
	seen := map[string]bool{}
	for i := range all {
		seen[all[i].Domain] = true
	}
	r.SitesFound = len(seen)
	r.TotalProducts = len(all)
	r.ElapsedTime = round(elapsed.Seconds(), 2)
	r.SearchStatus = Status{
		TotalSites:      sitesChecked,
		SuccessfulSites: r.SitesFound,
		ProductsFound:   r.TotalProducts,
		DurationSeconds: round(elapsed.Seconds(), 2),
	}

	if best != nil {
		r.BestDeal = &BestDeal{
			Listing:       toListing(&best.Signals),
			CombinedScore: round(best.CombinedScore, 2),
			PriceNumeric:  best.PriceNumeric,
			AvgTrustScore: round(best.AvgTrustScore, 1),
		}
	}
	return r
}

func toListing(s *analyze.Signals) Listing {
	price := ""
	if s.Price != nil {
		price = s.Price.Raw
	}
	return Listing{
		Site:  s.Domain,
		URL:   s.URL,
		Price: price,
		Scores: TrustBlock{
			DealTruth:       s.Scores.DealTruth,
			ReviewIntegrity: s.Scores.ReviewIntegrity,
			StoreSafety:     s.Scores.StoreSafety,
		},
		Title: truncate(s.Title, 80),
		Return: ReturnBlock{
			WindowDays:       s.ReturnPolicy.WindowDays,
			Type:             s.ReturnPolicy.Types,
			Method:           s.ReturnPolicy.Methods,
			FlexibilityScore: s.ReturnPolicy.FlexibilityScore,
			Highlights:       head(s.ReturnPolicy.Highlights, 2),
		},
		W: Warranty{
			DurationMonths: s.Warranty.DurationMonths,
			Type:           s.Warranty.Types,
			ServiceCenters: s.Warranty.ServiceCenters,
			Installation:   s.Warranty.Installation,
			SupportScore:   s.Warranty.SupportScore,
			Highlights:     head(s.Warranty.Highlights, 2),
		},
		Costs: CostBlock{
			Delivery:          s.HiddenCosts.DeliveryCharge,
			Installation:      s.HiddenCosts.InstallationFee,
			TotalExtra:        s.HiddenCosts.TotalHiddenCost,
			TransparencyScore: s.HiddenCosts.TransparencyScore,
			Warnings:          head(s.HiddenCosts.Warnings, 3),
		},
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func head(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// WriteJSON writes the report to the provided writer in indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteText writes a human-readable summary to the provided writer.
func WriteText(w io.Writer, r Report) error {
	const textTmpl = `Trusted Shopper Report
----------------------
Product:       {{.Product}}
Sites checked: {{.SitesChecked}} ({{.SitesFound}} returned results)
Listings:      {{.TotalProducts}}
Elapsed:       {{printf "%.1fs" .ElapsedTime}}

{{- if .BestDeal}}

Best deal: {{.BestDeal.Site}} at {{.BestDeal.Price}}
  Combined score: {{printf "%.2f" .BestDeal.CombinedScore}}
  Avg trust:      {{printf "%.1f" .BestDeal.AvgTrustScore}}
  {{.BestDeal.URL}}
{{- else}}

No priced listings found.
{{- end}}

Listings by price:
{{- range .Results}}
  {{.Site}}  {{if .Price}}{{.Price}}{{else}}(no price){{end}}  trust {{.Scores.DealTruth}}/{{.Scores.ReviewIntegrity}}/{{.Scores.StoreSafety}}
    {{.URL}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}
	if err := t.Execute(w, r); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// ParseFormat validates an output format flag value.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case "json", "text":
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}
