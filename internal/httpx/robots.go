package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers robots.txt questions per host and caches the parsed files.
type RobotsGate struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

func NewRobotsGate(client *http.Client) *RobotsGate {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &RobotsGate{client: client, cache: map[string]*robotstxt.RobotsData{}}
}

// Allowed reports whether ua may GET u. Unreachable or unparsable robots files allow everything.
func (g *RobotsGate) Allowed(ctx context.Context, u *url.URL, ua string) bool {
	data, err := g.robotsFor(ctx, u, ua)
	if err != nil {
		return true
	}
	group := data.FindGroup(ua)
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (g *RobotsGate) robotsFor(ctx context.Context, u *url.URL, ua string) (*robotstxt.RobotsData, error) {
	host := normalizeHost(u.Host)
	g.mu.Lock()
	if data, ok := g.cache[host]; ok {
		g.mu.Unlock()
		return data, nil
	}
	g.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ua)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.cache[host] = data
	g.mu.Unlock()
	return data, nil
}
