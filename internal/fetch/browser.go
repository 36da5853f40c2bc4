package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// BrowserConfig configures the rendering fetcher.
type BrowserConfig struct {
	// ChromeBin overrides browser binary discovery.
	ChromeBin string
	UserAgent string
	// NavTimeout bounds navigation plus rendering for one page.
	NavTimeout time.Duration
}

// Browser is the rendering PageFetcher. It drives a shared headless Chrome
// allocator; each Fetch opens its own tab, simulates light user interaction
// so lazy content loads, waits for the requested readiness selector, and
// returns the rendered DOM.
type Browser struct {
	cfg      BrowserConfig
	logger   *slog.Logger
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowser prepares a headless allocator. No browser process starts until
// the first Fetch.
func NewBrowser(ctx context.Context, cfg BrowserConfig, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NavTimeout == 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if bin := findChromeBinary(cfg.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Browser{
		cfg:      cfg,
		logger:   logger,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the allocator and any running browser process.
func (b *Browser) Close() {
	b.cancel()
}

// Fetch renders req.URL and returns the resulting DOM as HTML. Selector
// waits are best-effort: if neither the primary nor the backup selector
// appears within req.MaxWait, extraction proceeds on whatever rendered.
func (b *Browser) Fetch(ctx context.Context, req Request) *Result {
	start := time.Now()
	res := &Result{
		ID:        uuid.New().String(),
		URL:       req.URL,
		FetchedAt: start.UTC(),
	}

	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	// Caller cancellation tears down the tab.
	watchdog := make(chan struct{})
	defer close(watchdog)
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-watchdog:
		}
	}()

	navCtx, cancelNav := context.WithTimeout(tabCtx, b.cfg.NavTimeout)
	defer cancelNav()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(req.URL),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(1500*time.Millisecond),
	)
	if err != nil {
		res.Error = fmt.Sprintf("navigate: %v", err)
		res.Duration = time.Since(start)
		return res
	}

	b.awaitSelector(tabCtx, req)

	var html string
	htmlCtx, cancelHTML := context.WithTimeout(tabCtx, 10*time.Second)
	defer cancelHTML()
	if err := chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		res.Error = fmt.Sprintf("extract dom: %v", err)
		res.Duration = time.Since(start)
		return res
	}

	res.Body = []byte(html)
	res.Duration = time.Since(start)
	return res
}

// awaitSelector waits for the primary readiness selector, then the backup.
// Both timing out is logged and tolerated.
func (b *Browser) awaitSelector(tabCtx context.Context, req Request) {
	if req.WaitSelector == "" {
		return
	}

	maxWait := req.MaxWait
	if maxWait == 0 {
		maxWait = 10 * time.Second
	}

	waitCtx, cancel := context.WithTimeout(tabCtx, maxWait)
	err := chromedp.Run(waitCtx, chromedp.WaitReady(req.WaitSelector, chromedp.ByQuery))
	cancel()
	if err == nil {
		return
	}

	if req.BackupSelector != "" {
		backupCtx, cancelBackup := context.WithTimeout(tabCtx, 5*time.Second)
		err = chromedp.Run(backupCtx, chromedp.WaitReady(req.BackupSelector, chromedp.ByQuery))
		cancelBackup()
		if err == nil {
			return
		}
	}

	b.logger.Debug("readiness selector never appeared, extracting anyway",
		"url", req.URL, "selector", req.WaitSelector)
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the explicit
// override, then CHROME_BIN, then well-known names and paths.
func findChromeBinary(override string) string {
	if override != "" {
		return override
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
