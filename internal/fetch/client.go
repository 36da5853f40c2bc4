package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/fingerprint"
	"github.com/vidyavasavigunturu/trusted-shopper/pkg/httpclient"
	"github.com/vidyavasavigunturu/trusted-shopper/pkg/ratelimit"
	"github.com/vidyavasavigunturu/trusted-shopper/pkg/useragent"
)

// ClientConfig configures the lightweight fetcher.
type ClientConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	Fingerprint  fingerprint.Profile
	Agents       *useragent.Pool
	Limiter      *ratelimit.Limiter
	// RespectRobots gates every fetch through the host's robots.txt.
	RespectRobots bool
}

// Client is the lightweight PageFetcher: one GET per page, browser-like
// headers and TLS handshake, no script execution.
type Client struct {
	cfg    ClientConfig
	client *httpclient.Client
	robots *robotsCache
}

// NewClient builds a Client from cfg, defaulting the timeout to 30s and the
// fingerprint to Chrome.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Agents == nil {
		cfg.Agents = useragent.NewPool(nil)
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("fingerprint transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	c := &Client{cfg: cfg, client: client}
	if cfg.RespectRobots {
		c.robots = newRobotsCache(c)
	}
	return c, nil
}

// Fetch retrieves req.URL. Transport and policy failures land in
// Result.Error; the returned Result is never nil.
func (c *Client) Fetch(ctx context.Context, req Request) *Result {
	start := time.Now()
	res := &Result{
		ID:        uuid.New().String(),
		URL:       req.URL,
		FetchedAt: start.UTC(),
	}

	if c.cfg.Limiter != nil {
		if err := c.cfg.Limiter.Wait(ctx); err != nil {
			res.Error = fmt.Sprintf("rate limiter: %v", err)
			res.Duration = time.Since(start)
			return res
		}
	}

	if c.robots != nil {
		allowed, err := c.robots.allowed(ctx, req.URL)
		if err == nil && !allowed {
			res.Error = "disallowed by robots.txt"
			res.Duration = time.Since(start)
			return res
		}
		// robots.txt errors fail open: the fetch proceeds.
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		res.Error = fmt.Sprintf("build request: %v", err)
		res.Duration = time.Since(start)
		return res
	}

	httpReq.Header.Set("User-Agent", c.cfg.Agents.Next())
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-IN,en;q=0.8")

	resp, err := c.client.Do(ctx, httpReq)
	if err != nil {
		res.Error = fmt.Sprintf("request failed: %v", err)
		res.Duration = time.Since(start)
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Sprintf("read body: %v", err)
	}

	res.StatusCode = resp.StatusCode
	res.Body = body
	res.Duration = time.Since(start)

	detectChallenge(res)

	return res
}
