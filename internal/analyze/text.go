package analyze

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// ToPlainText strips markup down to visible text: script/style blocks and
// tags are dropped and whitespace collapsed. goquery handles well-formed
// documents; anything it rejects falls back to regex stripping so malformed
// pages still analyze.
func ToPlainText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		doc.Find("script, style, noscript").Remove()
		return strings.TrimSpace(spaceRe.ReplaceAllString(doc.Text(), " "))
	}

	text := scriptStyleRe.ReplaceAllString(markup, " ")
	text = tagRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// titleGuess takes the first meaningful chunk of page text as the title.
func titleGuess(text string) string {
	runes := []rune(text)
	if len(runes) > 140 {
		runes = runes[:140]
	}
	return strings.TrimSpace(string(runes))
}

// snippet returns a window of text around the earliest hit of any keyword,
// 140 runes of leading and 260 of trailing context. Empty when nothing hits.
func snippet(text string, keywords []string) string {
	lower := strings.ToLower(text)
	first := -1
	for _, k := range keywords {
		if idx := strings.Index(lower, k); idx != -1 && (first == -1 || idx < first) {
			first = idx
		}
	}
	if first == -1 {
		return ""
	}

	start := first - 140
	if start < 0 {
		start = 0
	}
	end := first + 260
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}
