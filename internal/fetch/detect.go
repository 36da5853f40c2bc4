package fetch

import (
	"bytes"
	"net/http"
)

// challengeSignature identifies one bot-protection vendor by status code and
// body markers. A blocked search page would otherwise be analyzed as if it
// were a product listing, so detection runs on every lightweight fetch.
type challengeSignature struct {
	source  string
	status  []int
	markers [][]byte
}

var challengeSignatures = []challengeSignature{
	{
		source: "Cloudflare",
		status: []int{http.StatusForbidden, http.StatusServiceUnavailable},
		markers: [][]byte{
			[]byte("cf-browser-verification"),
			[]byte("cf-turnstile"),
			[]byte("Attention Required! | Cloudflare"),
		},
	},
	{
		source: "Akamai",
		status: []int{http.StatusForbidden},
		markers: [][]byte{
			[]byte("Reference #"),
		},
	},
	{
		source: "DataDome",
		status: []int{http.StatusForbidden},
		markers: [][]byte{
			[]byte("geo.captcha-delivery.com"),
			[]byte("datadome"),
		},
	},
	{
		source: "PerimeterX",
		status: []int{http.StatusForbidden},
		markers: [][]byte{
			[]byte("client.perimeterx.net"),
			[]byte("px-captcha"),
		},
	},
}

// detectChallenge marks res as blocked when its status and body match a known
// challenge page. Returns true if a signature matched.
func detectChallenge(res *Result) bool {
	if res == nil || len(res.Body) == 0 {
		return false
	}
	for _, sig := range challengeSignatures {
		statusHit := false
		for _, s := range sig.status {
			if res.StatusCode == s {
				statusHit = true
				break
			}
		}
		if !statusHit {
			continue
		}
		for _, m := range sig.markers {
			if bytes.Contains(res.Body, m) {
				res.Blocked = true
				res.BlockSrc = sig.source
				return true
			}
		}
	}
	return false
}
