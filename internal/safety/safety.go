// Package safety screens candidate product URLs before any page fetch.
// The checks are structural (scheme, domain shape, TLD reputation); nothing
// here touches the network.
package safety

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Risk buckets, lowest to highest.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// trustedDomains are established storefronts; a match short-circuits every
// other check.
var trustedDomains = []string{
	"amazon.in", "amazon.com",
	"flipkart.com",
	"snapdeal.com",
	"myntra.com",
	"ebay.in", "ebay.com",
	"firstcry.com",
	"chumbak.com",
	"vijaysales.com",
	"bajajelectricals.com",
	"clovia.com",
	"campusshoes.com",
	"croma.com",
	"reliancedigital.in",
	"tatacliq.com",
	"shopclues.com",
}

// suspiciousTLDs show up disproportionately in throwaway scam shops.
var suspiciousTLDs = []string{
	".xyz", ".tk", ".ml", ".ga", ".cf", ".gq", ".top", ".click",
	".link", ".work", ".date", ".download", ".stream", ".trade", ".win",
}

// brandTokens are marketplace names scammers typo-squat on.
var brandTokens = []string{"amazon", "flipkart", "myntra", "snapdeal"}

var digitRunRe = regexp.MustCompile(`\d{3,}`)

// Verdict is the outcome of screening one URL.
type Verdict struct {
	URL      string   `json:"url"`
	Safe     bool     `json:"is_safe"`
	Risk     string   `json:"risk_level"`
	Trusted  bool     `json:"trusted_domain"`
	Warnings []string `json:"warnings,omitempty"`
}

// Check screens a single URL. It never returns an error: an unparseable
// URL is simply a high-risk verdict.
func Check(raw string) Verdict {
	v := Verdict{URL: raw, Risk: RiskLow}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		v.Risk = RiskHigh
		v.Warnings = append(v.Warnings, "URL could not be parsed")
		return v
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		v.Risk = RiskHigh
		v.Warnings = append(v.Warnings, fmt.Sprintf("unexpected scheme %q", u.Scheme))
		return v
	}
	if u.Scheme == "http" {
		v.Risk = RiskMedium
		v.Warnings = append(v.Warnings, "plain HTTP, no transport encryption")
	}

	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) != nil {
		v.Risk = RiskHigh
		v.Warnings = append(v.Warnings, "raw IP address instead of a domain")
		return v
	}

	if base, ok := matchTrusted(host); ok {
		v.Trusted = true
		v.Safe = true
		v.Risk = RiskLow
		v.Warnings = append(v.Warnings, fmt.Sprintf("trusted storefront %s", base))
		return v
	}

	raise := func(level, warning string) {
		v.Warnings = append(v.Warnings, warning)
		if level == RiskHigh || v.Risk == RiskHigh {
			v.Risk = RiskHigh
			return
		}
		v.Risk = RiskMedium
	}

	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			raise(RiskHigh, fmt.Sprintf("suspicious TLD %s", tld))
			break
		}
	}
	if strings.Count(host, ".") > 3 {
		raise(RiskMedium, "unusually deep subdomain nesting")
	}
	for _, brand := range brandTokens {
		if strings.Contains(host, brand) {
			raise(RiskHigh, fmt.Sprintf("impersonates %q on an untrusted domain", brand))
			break
		}
	}
	if base := baseLabel(host); len(base) < 4 {
		raise(RiskMedium, "very short domain name")
	}
	if len(host) > 50 {
		raise(RiskMedium, "unusually long domain name")
	}
	if digitRunRe.MatchString(host) {
		raise(RiskMedium, "long digit run in domain")
	}
	if strings.Count(host, "-") >= 3 {
		raise(RiskMedium, "many dashes in domain")
	}

	v.Safe = v.Risk == RiskLow || (v.Risk == RiskMedium && len(v.Warnings) <= 2)
	return v
}

// matchTrusted reports whether host is a trusted storefront or one of its
// subdomains.
func matchTrusted(host string) (string, bool) {
	for _, d := range trustedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return d, true
		}
	}
	return "", false
}

// baseLabel returns the second-to-last label of a host. Approximate for
// multi-part public suffixes, but the checks using it only need a rough
// length signal.
func baseLabel(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return parts[len(parts)-2]
}
