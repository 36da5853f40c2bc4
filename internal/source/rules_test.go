package source

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

func TestPatternRuleExtract(t *testing.T) {
	rule := &PatternRule{
		Pattern: regexp.MustCompile(`href="(/products/[^"]+?)"`),
		Domain:  "chumbak.com",
		Marker:  "/products/",
	}

	content := `
		<a href="/products/blue-mug?ref=grid">Blue Mug</a>
		<a href="/products/blue-mug?ref=carousel">Blue Mug again</a>
		<a href="/products/red-mug">Red Mug</a>
		<a href="/cart">Cart</a>
		<a href="/products/green-mug">Green Mug</a>
		<a href="/products/yellow-mug">Yellow Mug</a>
	`

	got := rule.Extract(content, 3)
	want := []string{
		"https://www.chumbak.com/products/blue-mug",
		"https://www.chumbak.com/products/red-mug",
		"https://www.chumbak.com/products/green-mug",
	}
	assertURLs(t, got, want)
}

func TestSelectorRuleExtract(t *testing.T) {
	rule := &SelectorRule{
		Selector: "a[href*='/p/']",
		Domain:   "flipkart.com",
		Marker:   "/p/",
	}

	content := `<html><body>
		<a href="/phone-x/p/itm123?pid=AAA&lid=BBB">Phone X</a>
		<a href="/phone-x/p/itm123?pid=AAA&lid=CCC">Phone X dup</a>
		<a href="https://www.flipkart.com/phone-y/p/itm456">Phone Y</a>
		<a href="https://evil.example.com/phone-z/p/itm789">foreign host</a>
	</body></html>`

	got := rule.Extract(content, 5)
	want := []string{
		"https://www.flipkart.com/phone-x/p/itm123",
		"https://www.flipkart.com/phone-y/p/itm456",
	}
	assertURLs(t, got, want)
}

func TestItemIDRuleExtract(t *testing.T) {
	rule := &ItemIDRule{
		Selector:    "div[data-asin]",
		Attr:        "data-asin",
		IDLen:       10,
		URLTemplate: "https://www.amazon.in/dp/%s",
	}

	content := `<html><body>
		<div data-asin="B0ABCDEFGH"></div>
		<div data-asin=""></div>
		<div data-asin="short"></div>
		<div data-asin="B0ABCDEFGH"></div>
		<div data-asin="B0IJKLMNOP"></div>
		<div data-asin="b0lowercase"></div>
	</body></html>`

	got := rule.Extract(content, 5)
	want := []string{
		"https://www.amazon.in/dp/B0ABCDEFGH",
		"https://www.amazon.in/dp/B0IJKLMNOP",
	}
	assertURLs(t, got, want)
}

func TestExtractRespectsMaxResults(t *testing.T) {
	rule := &PatternRule{
		Pattern: regexp.MustCompile(`href="(/item/[^"]+?)"`),
		Domain:  "example.com",
	}

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, `<a href="/item/%d">item</a>`, i)
	}

	got := rule.Extract(sb.String(), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 urls, got %d: %v", len(got), got)
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		href   string
		domain string
		want   string
		ok     bool
	}{
		{"/dp/B0X", "amazon.in", "https://www.amazon.in/dp/B0X", true},
		{"https://www.amazon.in/dp/B0X?tag=aff#reviews", "amazon.in", "https://www.amazon.in/dp/B0X", true},
		{"https://m.amazon.in/dp/B0X", "amazon.in", "https://m.amazon.in/dp/B0X", true},
		{"https://phish.example.com/dp/B0X", "amazon.in", "", false},
		{"javascript:alert(1)", "amazon.in", "", false},
		{"ftp://www.amazon.in/file", "amazon.in", "", false},
	}

	for _, tt := range tests {
		got, ok := canonicalize(tt.href, tt.domain)
		if ok != tt.ok {
			t.Errorf("canonicalize(%q) ok = %v, want %v", tt.href, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("canonicalize(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func assertURLs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d urls, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
