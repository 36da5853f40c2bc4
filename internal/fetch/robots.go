package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsCache fetches and caches robots.txt per host so repeated page fetches
// against the same storefront don't re-download it. A nil cache entry records
// a fetch failure and means "allow".
type robotsCache struct {
	client *Client
	mu     sync.RWMutex
	hosts  map[string]*robotstxt.RobotsData
}

func newRobotsCache(client *Client) *robotsCache {
	return &robotsCache{
		client: client,
		hosts:  make(map[string]*robotstxt.RobotsData),
	}
}

func (rc *robotsCache) allowed(ctx context.Context, target string) (bool, error) {
	u, err := url.Parse(target)
	if err != nil {
		return false, fmt.Errorf("invalid url: %w", err)
	}

	data, err := rc.lookup(ctx, u.Scheme+"://"+u.Host)
	if err != nil || data == nil {
		return true, err
	}

	group := data.FindGroup(rc.client.cfg.Agents.Next())
	return group.Test(u.Path), nil
}

func (rc *robotsCache) lookup(ctx context.Context, host string) (*robotstxt.RobotsData, error) {
	rc.mu.RLock()
	data, seen := rc.hosts[host]
	rc.mu.RUnlock()
	if seen {
		return data, nil
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if data, seen = rc.hosts[host]; seen {
		return data, nil
	}

	res := rc.client.fetchRaw(ctx, host+"/robots.txt")
	if res.Error != "" || res.StatusCode >= 400 {
		rc.hosts[host] = nil
		return nil, nil
	}

	parsed, err := robotstxt.FromBytes(res.Body)
	if err != nil {
		rc.hosts[host] = nil
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	rc.hosts[host] = parsed
	return parsed, nil
}

// fetchRaw performs a fetch that bypasses the robots gate itself.
func (c *Client) fetchRaw(ctx context.Context, target string) *Result {
	bare := &Client{cfg: c.cfg, client: c.client}
	return bare.Fetch(ctx, Request{URL: target})
}
