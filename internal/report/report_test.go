package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/analyze"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/ranker"
)

func sampleListings() []analyze.Signals {
	return []analyze.Signals{
		{
			URL:    "https://www.amazon.in/dp/B0TEST12345",
			Domain: "www.amazon.in",
			Title:  strings.Repeat("Very Long Product Title ", 10),
			Price:  &analyze.Price{Raw: "₹24,990", Currency: "₹"},
			Scores: analyze.TrustScores{DealTruth: 75, ReviewIntegrity: 80, StoreSafety: 90},
			ReturnPolicy: analyze.ReturnPolicy{
				Types:            []string{"refund"},
				Methods:          []string{"free-pickup"},
				FlexibilityScore: 85,
				Highlights:       []string{"one", "two", "three"},
			},
			Warranty: analyze.Warranty{
				Types:          []string{"brand"},
				ServiceCenters: analyze.ServiceCentersAvailable,
				SupportScore:   80,
				Highlights:     []string{"a", "b", "c"},
			},
			HiddenCosts: analyze.HiddenCosts{
				TransparencyScore: 95,
				Warnings:          []string{"w1", "w2", "w3", "w4"},
			},
		},
		{
			URL:    "https://www.flipkart.com/x/p/itm99",
			Domain: "www.flipkart.com",
			Title:  "Cheaper variant",
			Price:  &analyze.Price{Raw: "₹22,490", Currency: "₹"},
			Scores: analyze.TrustScores{DealTruth: 60, ReviewIntegrity: 65, StoreSafety: 85},
		},
	}
}

func TestBuild(t *testing.T) {
	all := sampleListings()
	ranked, best := ranker.Rank(all)

	r := Build("wireless headphones", all, ranked, best, 3, 42*time.Second)

	if r.Product != "wireless headphones" {
		t.Errorf("unexpected product %q", r.Product)
	}
	if r.SitesChecked != 3 {
		t.Errorf("expected 3 sites checked, got %d", r.SitesChecked)
	}
	if r.SitesFound != 2 {
		t.Errorf("expected 2 distinct sites, got %d", r.SitesFound)
	}
	if r.TotalProducts != 2 {
		t.Errorf("expected 2 listings, got %d", r.TotalProducts)
	}
	if r.ElapsedTime != 42 {
		t.Errorf("unexpected elapsed time %v", r.ElapsedTime)
	}
	if r.SearchStatus.TotalSites != 3 || r.SearchStatus.ProductsFound != 2 {
		t.Errorf("unexpected search status: %+v", r.SearchStatus)
	}
	if r.BestDeal == nil {
		t.Fatal("expected a best deal")
	}

	first := r.Results[0]
	if len([]rune(first.Title)) > 80 {
		t.Errorf("title not truncated: %d runes", len([]rune(first.Title)))
	}
	if len(first.Return.Highlights) > 2 {
		t.Errorf("return highlights not capped: %v", first.Return.Highlights)
	}
	if len(first.W.Highlights) > 2 {
		t.Errorf("warranty highlights not capped: %v", first.W.Highlights)
	}
	if len(first.Costs.Warnings) > 3 {
		t.Errorf("cost warnings not capped: %v", first.Costs.Warnings)
	}
}

func TestBuildNoBestDeal(t *testing.T) {
	r := Build("unfindable thing", nil, nil, nil, 3, time.Second)
	if r.BestDeal != nil {
		t.Error("expected no best deal")
	}
	if r.Results == nil {
		t.Error("results must be an empty list, not null")
	}
	if r.TotalProducts != 0 || r.SitesFound != 0 {
		t.Errorf("unexpected counts: %+v", r)
	}
}

func TestBuildCountsUnpricedListings(t *testing.T) {
	all := []analyze.Signals{
		{
			URL:    "https://www.snapdeal.com/product/x",
			Domain: "www.snapdeal.com",
			Title:  "Listing with no parseable price",
		},
	}
	ranked, best := ranker.Rank(all)

	r := Build("mystery gadget", all, ranked, best, 3, time.Second)
	if r.SitesFound != 1 {
		t.Errorf("expected the unpriced site to count, got sites_found %d", r.SitesFound)
	}
	if r.TotalProducts != 1 {
		t.Errorf("expected the unpriced listing to count, got total_products %d", r.TotalProducts)
	}
	if r.SearchStatus.SuccessfulSites != 1 || r.SearchStatus.ProductsFound != 1 {
		t.Errorf("unexpected search status: %+v", r.SearchStatus)
	}
	if len(r.Results) != 0 {
		t.Errorf("results must stay priced-only, got %d entries", len(r.Results))
	}
	if r.BestDeal != nil {
		t.Error("an unpriced listing cannot be the best deal")
	}
}

func TestWriteJSON(t *testing.T) {
	all := sampleListings()
	ranked, best := ranker.Rank(all)
	r := Build("wireless headphones", all, ranked, best, 3, 42*time.Second)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"product", "results", "best_deal", "sites_checked",
		"sites_found", "total_products", "elapsed_time", "search_status"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	bestDeal, ok := decoded["best_deal"].(map[string]interface{})
	if !ok {
		t.Fatal("best_deal is not an object")
	}
	for _, key := range []string{"site", "url", "price", "scores", "combined_score",
		"price_numeric", "avg_trust_score"} {
		if _, ok := bestDeal[key]; !ok {
			t.Errorf("missing best_deal key %q", key)
		}
	}
}

func TestWriteText(t *testing.T) {
	all := sampleListings()
	ranked, best := ranker.Rank(all)
	r := Build("wireless headphones", all, ranked, best, 3, 42*time.Second)

	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "wireless headphones") {
		t.Error("expected the product name in the text report")
	}
	if !strings.Contains(out, "Best deal:") {
		t.Error("expected a best deal section")
	}
	if !strings.Contains(out, "Sites checked: 3") {
		t.Error("expected the sites-checked line")
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []string{"json", "JSON", "text", "Text"} {
		if _, err := ParseFormat(f); err != nil {
			t.Errorf("%q should parse: %v", f, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
