package source

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule extracts candidate product URLs from one raw search-results page.
// Implementations never fail: malformed content simply yields fewer URLs.
// Returned URLs are absolute, query-stripped, deduplicated and in first-seen
// order, capped at maxResults.
type Rule interface {
	Extract(content string, maxResults int) []string
}

// PatternRule matches product hrefs with a regular expression over the raw
// HTML. Used for sources whose lightweight responses carry plain markup.
type PatternRule struct {
	Pattern *regexp.Regexp
	Domain  string
	// Marker is a required path substring identifying a product page;
	// empty means the pattern itself is selective enough.
	Marker string
}

// Extract implements Rule.
func (r *PatternRule) Extract(content string, maxResults int) []string {
	if r.Pattern == nil || maxResults <= 0 {
		return nil
	}

	collector := newURLCollector(r.Domain, r.Marker, maxResults)
	for _, match := range r.Pattern.FindAllStringSubmatch(content, -1) {
		href := match[0]
		if len(match) > 1 {
			href = match[1]
		}
		if collector.add(href) {
			break
		}
	}
	return collector.urls
}

// SelectorRule pulls anchor targets with a CSS selector. Used for rendered
// DOM snapshots where the markup is too irregular for one regexp.
type SelectorRule struct {
	Selector string
	Domain   string
	Marker   string
}

// Extract implements Rule.
func (r *SelectorRule) Extract(content string, maxResults int) []string {
	if r.Selector == "" || maxResults <= 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	collector := newURLCollector(r.Domain, r.Marker, maxResults)
	doc.Find(r.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		return !collector.add(href)
	})
	return collector.urls
}

// ItemIDRule extracts marketplace item identifiers (e.g. Amazon ASINs) from
// an element attribute and builds canonical product URLs from a template.
// Identifiers failing the expected length or character class are skipped
// silently.
type ItemIDRule struct {
	Selector    string
	Attr        string
	IDLen       int
	URLTemplate string
}

var itemIDChars = regexp.MustCompile(`^[A-Z0-9]+$`)

// Extract implements Rule.
func (r *ItemIDRule) Extract(content string, maxResults int) []string {
	if r.Attr == "" || r.URLTemplate == "" || maxResults <= 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	selector := r.Selector
	if selector == "" {
		selector = "[" + r.Attr + "]"
	}

	var urls []string
	seen := make(map[string]struct{})
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, ok := s.Attr(r.Attr)
		if !ok {
			return true
		}
		if r.IDLen > 0 && len(id) != r.IDLen {
			return true
		}
		if !itemIDChars.MatchString(id) {
			return true
		}

		u := fmt.Sprintf(r.URLTemplate, id)
		if _, dup := seen[u]; dup {
			return true
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		return len(urls) < maxResults
	})
	return urls
}

// urlCollector canonicalizes hrefs against a source domain and dedupes them
// by their query-stripped form.
type urlCollector struct {
	domain string
	marker string
	max    int
	seen   map[string]struct{}
	urls   []string
}

func newURLCollector(domain, marker string, max int) *urlCollector {
	return &urlCollector{
		domain: domain,
		marker: marker,
		max:    max,
		seen:   make(map[string]struct{}),
	}
}

// add canonicalizes href and records it. Returns true once the collector is
// full.
func (c *urlCollector) add(href string) bool {
	clean, ok := canonicalize(href, c.domain)
	if !ok {
		return false
	}
	if c.marker != "" && !strings.Contains(clean, c.marker) {
		return false
	}
	if _, dup := c.seen[clean]; dup {
		return false
	}
	c.seen[clean] = struct{}{}
	c.urls = append(c.urls, clean)
	return len(c.urls) >= c.max
}

// canonicalize resolves href against the source domain, rejects foreign
// hosts and non-HTTP schemes, and strips the query string and fragment.
func canonicalize(href, domain string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}

	if !u.IsAbs() {
		base := &url.URL{Scheme: "https", Host: "www." + domain}
		u = base.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return "", false
	}

	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), true
}
