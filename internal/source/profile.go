// Package source defines the storefronts the pipeline searches and the rules
// that pull candidate product URLs out of their result pages.
package source

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/fetch"
)

// Profile describes one e-commerce source: how to search it, how to pull
// product URLs out of the results, and how patient to be. Profiles are built
// at startup and never mutated afterwards.
type Profile struct {
	Name   string
	Domain string
	// SearchURL contains a single {query} placeholder for the URL-encoded
	// product name.
	SearchURL string
	Method    fetch.Variant
	Rule      Rule
	// WaitSelector and BackupSelector are readiness selectors for the
	// rendering fetch; unused by lightweight sources.
	WaitSelector   string
	BackupSelector string
	MaxWait        time.Duration
	RetryDelay     time.Duration
	Enabled        bool
}

// BuildSearchURL substitutes the encoded product name into the template.
func (p Profile) BuildSearchURL(product string) string {
	return strings.Replace(p.SearchURL, "{query}", url.QueryEscape(product), 1)
}

// DefaultPriority names the sources processed on a normal run, in order.
// Searching every known storefront would push run latency well past what an
// interactive comparison tolerates.
var DefaultPriority = []string{"Amazon.in", "Flipkart", "Vijay Sales"}

// MaxSourcesPerRun bounds how many sources one run fans out to.
const MaxSourcesPerRun = 3

// DefaultProfiles returns the built-in source table. Disabled entries are
// storefronts whose anti-bot posture makes headless access unreliable; they
// stay listed so a YAML override can re-enable them.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:      "Amazon.in",
			Domain:    "amazon.in",
			SearchURL: "https://www.amazon.in/s?k={query}",
			Method:    fetch.VariantRendering,
			Rule: &ItemIDRule{
				Selector:    "div[data-asin]",
				Attr:        "data-asin",
				IDLen:       10,
				URLTemplate: "https://www.amazon.in/dp/%s",
			},
			WaitSelector:   "div.s-result-list",
			BackupSelector: "div[data-asin]",
			MaxWait:        15 * time.Second,
			RetryDelay:     10 * time.Second,
			Enabled:        true,
		},
		{
			Name:      "Flipkart",
			Domain:    "flipkart.com",
			SearchURL: "https://www.flipkart.com/search?q={query}",
			Method:    fetch.VariantRendering,
			Rule: &SelectorRule{
				Selector: "a[href*='/p/']",
				Domain:   "flipkart.com",
				Marker:   "/p/",
			},
			WaitSelector:   "div[data-id]",
			BackupSelector: "div._75nlfW",
			MaxWait:        10 * time.Second,
			RetryDelay:     2 * time.Second,
			Enabled:        true,
		},
		{
			Name:      "Myntra",
			Domain:    "myntra.com",
			SearchURL: "https://www.myntra.com/{query}",
			Method:    fetch.VariantRendering,
			Rule: &SelectorRule{
				Selector: "a[href*='/product/']",
				Domain:   "myntra.com",
				Marker:   "/product/",
			},
			WaitSelector:   "div.search-searchProductsContainer",
			BackupSelector: "li.product-base",
			MaxWait:        20 * time.Second,
			RetryDelay:     2 * time.Second,
			Enabled:        false, // blocks headless browsers aggressively
		},
		{
			Name:      "Snapdeal",
			Domain:    "snapdeal.com",
			SearchURL: "https://www.snapdeal.com/search?keyword={query}",
			Method:    fetch.VariantRendering,
			Rule: &SelectorRule{
				Selector: "div.product-tuple-listing a.dp-widget-link",
				Domain:   "snapdeal.com",
			},
			WaitSelector:   "div.product-tuple-listing",
			BackupSelector: "section.js-products",
			MaxWait:        15 * time.Second,
			RetryDelay:     2 * time.Second,
			Enabled:        false, // Cloudflare interstitial on every search
		},
		{
			Name:      "Firstcry",
			Domain:    "firstcry.com",
			SearchURL: "https://www.firstcry.com/search?searchstring={query}",
			Method:    fetch.VariantLightweight,
			Rule: &PatternRule{
				Pattern: regexp.MustCompile(`href="(/[^"]+?/product-detail[^"]*)"`),
				Domain:  "firstcry.com",
				Marker:  "/product-detail",
			},
			RetryDelay: 2 * time.Second,
			Enabled:    true,
		},
		{
			Name:      "Chumbak",
			Domain:    "chumbak.com",
			SearchURL: "https://www.chumbak.com/search?q={query}",
			Method:    fetch.VariantLightweight,
			Rule: &PatternRule{
				Pattern: regexp.MustCompile(`href="(/products/[^"]+?)"`),
				Domain:  "chumbak.com",
				Marker:  "/products/",
			},
			RetryDelay: 2 * time.Second,
			Enabled:    true,
		},
		{
			Name:      "Vijay Sales",
			Domain:    "vijaysales.com",
			SearchURL: "https://www.vijaysales.com/search/{query}",
			Method:    fetch.VariantLightweight,
			Rule: &PatternRule{
				Pattern: regexp.MustCompile(`href="(/[^"]+?-\d+)"`),
				Domain:  "vijaysales.com",
			},
			RetryDelay: 2 * time.Second,
			Enabled:    true,
		},
		{
			Name:      "Bajaj Electricals",
			Domain:    "bajajelectricals.com",
			SearchURL: "https://www.bajajelectricals.com/search?q={query}",
			Method:    fetch.VariantRendering,
			Rule: &SelectorRule{
				Selector: "a[href*='/products/']",
				Domain:   "bajajelectricals.com",
				Marker:   "/products/",
			},
			WaitSelector:   "div.grid-product",
			BackupSelector: "a[href*='/products/']",
			MaxWait:        10 * time.Second,
			RetryDelay:     2 * time.Second,
			Enabled:        true,
		},
		{
			Name:      "Clovia",
			Domain:    "clovia.com",
			SearchURL: "https://www.clovia.com/search?q={query}",
			Method:    fetch.VariantRendering,
			Rule: &SelectorRule{
				Selector: "a[href*='/product/']",
				Domain:   "clovia.com",
				Marker:   "/product/",
			},
			WaitSelector:   "div.product-card",
			BackupSelector: "a[href*='/product/']",
			MaxWait:        10 * time.Second,
			RetryDelay:     2 * time.Second,
			Enabled:        true,
		},
		{
			Name:      "Campus Shoes",
			Domain:    "campusshoes.com",
			SearchURL: "https://www.campusshoes.com/search?q={query}",
			Method:    fetch.VariantRendering,
			Rule: &SelectorRule{
				Selector: "a[href*='/products/']",
				Domain:   "campusshoes.com",
				Marker:   "/products/",
			},
			WaitSelector:   "div.product-item",
			BackupSelector: "a[href*='/products/']",
			MaxWait:        10 * time.Second,
			RetryDelay:     2 * time.Second,
			Enabled:        true,
		},
	}
}

// Registry holds the known source profiles.
type Registry struct {
	profiles []Profile
}

// NewRegistry wraps the given profiles, defaulting to DefaultProfiles.
func NewRegistry(profiles []Profile) *Registry {
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	return &Registry{profiles: profiles}
}

// All returns every registered profile.
func (r *Registry) All() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Enabled returns the enabled profiles in registration order.
func (r *Registry) Enabled() []Profile {
	var out []Profile
	for _, p := range r.profiles {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Select returns up to max enabled profiles, preferring the named priority
// order. An empty priority list falls back to plain registration order.
func (r *Registry) Select(priority []string, max int) []Profile {
	if max <= 0 {
		max = MaxSourcesPerRun
	}
	enabled := r.Enabled()
	if len(priority) == 0 {
		if len(enabled) > max {
			enabled = enabled[:max]
		}
		return enabled
	}

	var out []Profile
	for _, name := range priority {
		for _, p := range enabled {
			if p.Name == name {
				out = append(out, p)
				break
			}
		}
		if len(out) == max {
			break
		}
	}
	return out
}

// profileSpec is the YAML form of a Profile override.
type profileSpec struct {
	Name           string  `yaml:"name"`
	Domain         string  `yaml:"domain"`
	SearchURL      string  `yaml:"search_url"`
	Method         string  `yaml:"method"`
	Pattern        string  `yaml:"pattern,omitempty"`
	Selector       string  `yaml:"selector,omitempty"`
	Marker         string  `yaml:"marker,omitempty"`
	IDAttr         string  `yaml:"id_attr,omitempty"`
	IDLen          int     `yaml:"id_len,omitempty"`
	URLTemplate    string  `yaml:"url_template,omitempty"`
	WaitSelector   string  `yaml:"wait_for,omitempty"`
	BackupSelector string  `yaml:"wait_for_backup,omitempty"`
	MaxWaitSec     float64 `yaml:"max_wait_seconds,omitempty"`
	RetryDelaySec  float64 `yaml:"retry_delay_seconds,omitempty"`
	Enabled        bool    `yaml:"enabled"`
}

type registryFile struct {
	Sources []profileSpec `yaml:"sources"`
}

// LoadRegistry reads a YAML source table, replacing the built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	profiles := make([]Profile, 0, len(file.Sources))
	for _, spec := range file.Sources {
		p, err := spec.toProfile()
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", spec.Name, err)
		}
		profiles = append(profiles, p)
	}
	return NewRegistry(profiles), nil
}

func (s profileSpec) toProfile() (Profile, error) {
	if s.Name == "" || s.Domain == "" || s.SearchURL == "" {
		return Profile{}, fmt.Errorf("name, domain and search_url are required")
	}

	var method fetch.Variant
	switch s.Method {
	case "", string(fetch.VariantLightweight):
		method = fetch.VariantLightweight
	case string(fetch.VariantRendering):
		method = fetch.VariantRendering
	default:
		return Profile{}, fmt.Errorf("unknown method %q", s.Method)
	}

	var rule Rule
	switch {
	case s.IDAttr != "":
		if s.URLTemplate == "" {
			return Profile{}, fmt.Errorf("id_attr requires url_template")
		}
		rule = &ItemIDRule{
			Selector:    s.Selector,
			Attr:        s.IDAttr,
			IDLen:       s.IDLen,
			URLTemplate: s.URLTemplate,
		}
	case s.Pattern != "":
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return Profile{}, fmt.Errorf("bad pattern: %w", err)
		}
		rule = &PatternRule{Pattern: re, Domain: s.Domain, Marker: s.Marker}
	case s.Selector != "":
		rule = &SelectorRule{Selector: s.Selector, Domain: s.Domain, Marker: s.Marker}
	default:
		return Profile{}, fmt.Errorf("one of pattern, selector or id_attr is required")
	}

	return Profile{
		Name:           s.Name,
		Domain:         s.Domain,
		SearchURL:      s.SearchURL,
		Method:         method,
		Rule:           rule,
		WaitSelector:   s.WaitSelector,
		BackupSelector: s.BackupSelector,
		MaxWait:        time.Duration(s.MaxWaitSec * float64(time.Second)),
		RetryDelay:     time.Duration(s.RetryDelaySec * float64(time.Second)),
		Enabled:        s.Enabled,
	}, nil
}
