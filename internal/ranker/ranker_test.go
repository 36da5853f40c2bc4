package ranker

import (
	"testing"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/analyze"
)

func listing(url, price string, deal, review, safety int) analyze.Signals {
	s := analyze.Signals{
		URL:    url,
		Scores: analyze.TrustScores{DealTruth: deal, ReviewIntegrity: review, StoreSafety: safety},
	}
	if price != "" {
		s.Price = &analyze.Price{Raw: price, Currency: "₹"}
	}
	return s
}

func TestRankSortsByPrice(t *testing.T) {
	in := []analyze.Signals{
		listing("https://a.example/1", "₹2,000", 70, 70, 80),
		listing("https://b.example/2", "₹1,500", 70, 70, 80),
		listing("https://c.example/3", "₹3,000", 70, 70, 80),
	}

	sorted, best := Rank(in)
	if best == nil {
		t.Fatal("expected a best deal")
	}
	if len(sorted) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(sorted))
	}

	prices := []float64{sorted[0].PriceNumeric, sorted[1].PriceNumeric, sorted[2].PriceNumeric}
	if prices[0] != 1500 || prices[1] != 2000 || prices[2] != 3000 {
		t.Errorf("expected ascending prices, got %v", prices)
	}
	if best.PriceNumeric != 1500 {
		t.Errorf("with identical trust the cheapest listing must win, got %v", best.PriceNumeric)
	}
}

func TestRankTrustBeatsPrice(t *testing.T) {
	in := []analyze.Signals{
		listing("https://cheap.example/1", "₹1,000", 20, 20, 20),
		listing("https://solid.example/2", "₹1,200", 90, 90, 90),
	}

	_, best := Rank(in)
	if best == nil {
		t.Fatal("expected a best deal")
	}
	if best.URL != "https://solid.example/2" {
		t.Errorf("trust should outweigh a small price gap, got %s", best.URL)
	}
}

func TestRankDropsUnpriced(t *testing.T) {
	in := []analyze.Signals{
		listing("https://a.example/1", "", 90, 90, 90),
		listing("https://b.example/2", "₹500", 70, 70, 70),
	}

	sorted, best := Rank(in)
	if len(sorted) != 1 {
		t.Fatalf("expected the unpriced listing dropped, got %d", len(sorted))
	}
	if best == nil || best.URL != "https://b.example/2" {
		t.Errorf("unexpected best deal: %+v", best)
	}
}

func TestRankEmpty(t *testing.T) {
	sorted, best := Rank(nil)
	if sorted != nil || best != nil {
		t.Errorf("expected nil outputs for no listings, got %v %v", sorted, best)
	}

	sorted, best = Rank([]analyze.Signals{listing("https://a.example/1", "", 70, 70, 70)})
	if sorted != nil || best != nil {
		t.Error("expected nil outputs when nothing is priced")
	}
}

func TestRankTieGoesToFirst(t *testing.T) {
	in := []analyze.Signals{
		listing("https://first.example/1", "₹999", 80, 80, 80),
		listing("https://second.example/2", "₹999", 80, 80, 80),
	}

	_, best := Rank(in)
	if best == nil {
		t.Fatal("expected a best deal")
	}
	if best.URL != "https://first.example/1" {
		t.Errorf("ties must resolve to the earlier listing, got %s", best.URL)
	}
}

func TestRankCombinedScore(t *testing.T) {
	in := []analyze.Signals{
		listing("https://a.example/1", "₹1,000", 60, 60, 60),
		listing("https://b.example/2", "₹2,000", 90, 90, 90),
	}

	sorted, best := Rank(in)
	if best == nil {
		t.Fatal("expected a best deal")
	}

	// Cheaper listing: trust 60, price score (1-1000/2000)*100 = 50.
	want := 0.6*60 + 0.4*50
	var cheaper *Ranked
	for i := range sorted {
		if sorted[i].PriceNumeric == 1000 {
			cheaper = &sorted[i]
		}
	}
	if cheaper == nil {
		t.Fatal("cheaper listing missing from output")
	}
	if diff := cheaper.CombinedScore - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected combined score %.2f, got %.2f", want, cheaper.CombinedScore)
	}

	// Pricier listing: trust 90, price score 0.
	if diff := best.CombinedScore - 0.6*90; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected best combined score %.2f, got %.2f", 0.6*90, best.CombinedScore)
	}
}

func TestPriceValue(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"₹1,29,990", 129990, true},
		{"₹499.50", 499, true},
		{"$19.99", 19, true},
		{"₹0", 0, true},
		{"call for price", 0, false},
	}

	for _, tt := range tests {
		p := &analyze.Price{Raw: tt.raw}
		got, ok := priceValue(p)
		if ok != tt.ok || got != tt.want {
			t.Errorf("priceValue(%q) = %v %v, want %v %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}

	if _, ok := priceValue(nil); ok {
		t.Error("nil price must not parse")
	}
}
