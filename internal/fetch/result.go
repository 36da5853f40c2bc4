package fetch

import (
	"context"
	"strings"
	"time"
)

// Variant selects how a page is retrieved.
type Variant string

const (
	// VariantLightweight is a plain HTTP GET with no script execution.
	VariantLightweight Variant = "lightweight"
	// VariantRendering drives a headless browser: scripts run, the page is
	// scrolled, and extraction waits for a readiness selector.
	VariantRendering Variant = "rendering"
)

// Request describes one page retrieval. The selector and wait fields only
// apply to the rendering variant and are ignored by the lightweight client.
type Request struct {
	URL            string
	WaitSelector   string
	BackupSelector string
	MaxWait        time.Duration
}

// Result captures the outcome of a single fetch. Transport failures are
// recorded in Error rather than returned, so one bad page never aborts a
// pipeline run.
type Result struct {
	ID         string
	URL        string
	Body       []byte
	StatusCode int
	Duration   time.Duration
	FetchedAt  time.Time
	// Blocked marks responses recognized as bot-challenge pages; BlockSrc
	// names the protection vendor when known.
	Blocked  bool
	BlockSrc string
	Error    string
}

// OK reports whether the fetch produced usable page content.
func (r *Result) OK() bool {
	return r != nil && r.Error == "" && !r.Blocked &&
		(r.StatusCode == 0 || (r.StatusCode >= 200 && r.StatusCode < 400))
}

// Timeout reports whether the recorded failure was a deadline expiry.
func (r *Result) Timeout() bool {
	if r == nil || r.Error == "" {
		return false
	}
	return strings.Contains(r.Error, context.DeadlineExceeded.Error()) ||
		strings.Contains(r.Error, "Client.Timeout")
}

// Fetcher retrieves one page. Both the lightweight Client and the rendering
// Browser satisfy it, as do test stubs.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) *Result
}
