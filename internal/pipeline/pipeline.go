// Package pipeline orchestrates one comparison run: fan out to the selected
// sources, extract candidate product URLs, fetch and analyze each page, then
// rank what survived.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/analyze"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/fetch"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/metrics"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/ranker"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/report"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/safety"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/source"
)

// Config tunes one Runner.
type Config struct {
	// MaxPerSource caps how many product URLs each source contributes.
	MaxPerSource int
	// SourceTimeout bounds one source's whole search, page fetches
	// included.
	SourceTimeout time.Duration
	// Priority names the sources to query, in order. Empty means the
	// default priority list.
	Priority []string
	// MaxSources bounds the fan-out width.
	MaxSources int
}

// Runner executes comparison runs. Lightweight and Rendering are the two
// page fetchers; Rendering may be nil, in which case sources that need a
// browser fall back to the lightweight fetch.
type Runner struct {
	cfg         Config
	registry    *source.Registry
	lightweight fetch.Fetcher
	rendering   fetch.Fetcher
	logger      *slog.Logger
}

// NewRunner wires a Runner. registry and lightweight are required.
func NewRunner(cfg Config, registry *source.Registry, lightweight, rendering fetch.Fetcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPerSource <= 0 {
		cfg.MaxPerSource = 3
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 90 * time.Second
	}
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = source.MaxSourcesPerRun
	}
	if len(cfg.Priority) == 0 {
		cfg.Priority = source.DefaultPriority
	}
	return &Runner{
		cfg:         cfg,
		registry:    registry,
		lightweight: lightweight,
		rendering:   rendering,
		logger:      logger,
	}
}

// Run searches every selected source for the product and assembles the
// final report. Individual source failures are logged and absorbed; Run only
// errors when the context dies before anything completes.
func (r *Runner) Run(ctx context.Context, product string) (report.Report, error) {
	start := time.Now()
	selected := r.registry.Select(r.cfg.Priority, r.cfg.MaxSources)
	r.logger.Info("starting comparison run",
		"product", product, "sources", len(selected))

	results := make([][]analyze.Signals, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	if n := len(selected); n > 0 {
		g.SetLimit(n)
	}
	for i, prof := range selected {
		i, prof := i, prof
		g.Go(func() error {
			srcCtx, cancel := context.WithTimeout(gctx, r.cfg.SourceTimeout)
			defer cancel()

			srcStart := time.Now()
			listings := r.searchSource(srcCtx, prof, product)
			outcome := "ok"
			if len(listings) == 0 {
				outcome = "empty"
			}
			metrics.RecordSearch(prof.Name, outcome, time.Since(srcStart))

			results[i] = listings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.Report{}, err
	}

	var all []analyze.Signals
	for _, batch := range results {
		all = append(all, batch...)
	}

	ranked, best := ranker.Rank(all)
	rep := report.Build(product, all, ranked, best, len(selected), time.Since(start))
	r.logger.Info("comparison run finished",
		"product", product,
		"listings", rep.TotalProducts,
		"sites_found", rep.SitesFound,
		"elapsed", rep.ElapsedTime)
	return rep, nil
}

// searchSource runs one source end to end: search page, URL extraction,
// then a fetch-and-analyze pass per candidate URL.
func (r *Runner) searchSource(ctx context.Context, prof source.Profile, product string) []analyze.Signals {
	searchURL := prof.BuildSearchURL(product)
	log := r.logger.With("source", prof.Name)
	log.Info("searching source", "url", searchURL)

	res := r.fetchWithRetry(ctx, prof, fetch.Request{
		URL:            searchURL,
		WaitSelector:   prof.WaitSelector,
		BackupSelector: prof.BackupSelector,
		MaxWait:        prof.MaxWait,
	})
	if !res.OK() {
		log.Warn("source search failed",
			"status", res.StatusCode, "blocked", res.Blocked, "error", res.Error)
		return nil
	}

	urls := prof.Rule.Extract(string(res.Body), r.cfg.MaxPerSource)
	metrics.ListingsFoundTotal.WithLabelValues(prof.Name).Add(float64(len(urls)))
	log.Info("extracted product urls", "count", len(urls))

	var listings []analyze.Signals
	for _, u := range urls {
		if ctx.Err() != nil {
			log.Warn("source deadline hit, keeping partial results",
				"analyzed", len(listings), "of", len(urls))
			break
		}

		verdict := safety.Check(u)
		if !verdict.Safe {
			log.Warn("skipping unsafe url", "url", u, "risk", verdict.Risk)
			continue
		}

		sig, ok := r.analyzePage(ctx, prof, u)
		if !ok {
			continue
		}
		listings = append(listings, sig)
	}
	return listings
}

// fetchWithRetry fetches through the profile's preferred fetcher, retrying
// exactly once after the profile's delay when the first attempt fails.
func (r *Runner) fetchWithRetry(ctx context.Context, prof source.Profile, req fetch.Request) *fetch.Result {
	fetcher := r.fetcherFor(prof.Method)

	res := fetcher.Fetch(ctx, req)
	if res.OK() {
		return res
	}

	r.logger.Debug("fetch failed, retrying once",
		"source", prof.Name, "url", req.URL, "error", res.Error)
	select {
	case <-ctx.Done():
		return res
	case <-time.After(prof.RetryDelay):
	}
	return fetcher.Fetch(ctx, req)
}

// analyzePage fetches one product page and runs the analyzer over its text.
func (r *Runner) analyzePage(ctx context.Context, prof source.Profile, pageURL string) (analyze.Signals, bool) {
	fetcher := r.lightweight
	// Flipkart product pages render their content client-side; everything
	// else serves enough static HTML for the lightweight fetch.
	if r.rendering != nil && needsRendering(pageURL) {
		fetcher = r.rendering
	}

	res := fetcher.Fetch(ctx, fetch.Request{URL: pageURL})
	metrics.RecordPage(prof.Name, res)
	if !res.OK() {
		r.logger.Warn("product page fetch failed",
			"source", prof.Name, "url", pageURL, "error", res.Error, "blocked", res.Blocked)
		return analyze.Signals{}, false
	}

	text := analyze.ToPlainText(string(res.Body))
	if text == "" {
		r.logger.Warn("product page had no extractable text",
			"source", prof.Name, "url", pageURL)
		return analyze.Signals{}, false
	}
	return analyze.Analyze(pageURL, text), true
}

func (r *Runner) fetcherFor(v fetch.Variant) fetch.Fetcher {
	if v == fetch.VariantRendering && r.rendering != nil {
		return r.rendering
	}
	return r.lightweight
}

// needsRendering reports whether a product page cannot be read without
// script execution.
func needsRendering(pageURL string) bool {
	return strings.Contains(pageURL, "flipkart.com") && strings.Contains(pageURL, "/p/")
}
