package analyze

import (
	"strings"
	"testing"
)

func TestToPlainText(t *testing.T) {
	html := `<html><head>
		<script>var tracking = "secret";</script>
		<style>.price { color: red; }</style>
	</head><body>
		<h1>Blue Ceramic Mug</h1>
		<p>Price: <span>₹499</span></p>
		<noscript>enable javascript</noscript>
	</body></html>`

	got := ToPlainText(html)
	if strings.Contains(got, "tracking") {
		t.Errorf("script content leaked into text: %q", got)
	}
	if strings.Contains(got, "color: red") {
		t.Errorf("style content leaked into text: %q", got)
	}
	if !strings.Contains(got, "Blue Ceramic Mug") {
		t.Errorf("visible text missing: %q", got)
	}
	if !strings.Contains(got, "₹499") {
		t.Errorf("price text missing: %q", got)
	}
}

func TestToPlainTextCollapsesWhitespace(t *testing.T) {
	got := ToPlainText("<p>one</p>\n\n\t<p>two</p>")
	if strings.Contains(got, "\n") || strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestToPlainTextEmpty(t *testing.T) {
	if got := ToPlainText(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestSnippet(t *testing.T) {
	text := strings.Repeat("filler ", 50) + "Easy return policy within 10 days" + strings.Repeat(" trailer", 50)

	got := snippet(text, []string{"return"})
	if got == "" {
		t.Fatal("expected a snippet")
	}
	if !strings.Contains(got, "return policy") {
		t.Errorf("snippet missed the keyword region: %q", got)
	}
	if len(got) > 420 {
		t.Errorf("snippet too long: %d chars", len(got))
	}
}

func TestSnippetNoHit(t *testing.T) {
	if got := snippet("nothing relevant here", []string{"return", "refund"}); got != "" {
		t.Errorf("expected an empty snippet, got %q", got)
	}
}
