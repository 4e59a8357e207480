package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 3
)

// ErrFetchFailed is matched by every *FetchError.
var ErrFetchFailed = errors.New("fetch failed")

var errTooManyRedirects = errors.New("too many redirects")

// Realistic desktop browser strings; one is picked per request.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
}

var defaultHeaders = http.Header{
	"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
	"Accept-Language": {"en-US,en;q=0.9"},
	"Connection":      {"keep-alive"},
}

// UserAgents returns a copy of the rotation pool.
func UserAgents() []string {
	return append([]string(nil), userAgents...)
}

// Page is an immutable fetched HTML document.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
	FetchedAt  time.Time
}

// FetchError describes a failed fetch with a hint suitable for end users.
type FetchError struct {
	URL    string
	Status int
	Hint   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s failed (status %d): %s", e.URL, e.Status, e.Hint)
	}
	return fmt.Sprintf("fetch %s failed (status %d): %s: %v", e.URL, e.Status, e.Hint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrFetchFailed.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// Config controls the fetcher. Zero values fall back to defaults; RatePerSecond <= 0 disables
// per-host limiting.
type Config struct {
	Timeout       time.Duration
	MaxRedirects  int
	RespectRobots bool
	RatePerSecond float64
	Burst         int
}

// Fetcher performs a single GET per call with a rotated user agent. It does not retry.
type Fetcher struct {
	cfg       Config
	transport http.RoundTripper
	robots    *RobotsGate
	pick      func(n int) int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewFetcher builds a Fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	transport := newHTTPTransport()
	f := &Fetcher{
		cfg:       cfg,
		transport: transport,
		pick:      rand.IntN,
		hosts:     make(map[string]*rate.Limiter),
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsGate(&http.Client{Timeout: cfg.Timeout, Transport: transport})
	}
	return f
}

// Fetch GETs rawURL. Timeouts, DNS and connection errors, too many redirects and statuses
// >= 400 are returned as *FetchError. 2xx and 3xx responses are accepted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Hint: "the URL could not be parsed", Err: err}
	}
	if err := f.waitForHost(ctx, target.Hostname()); err != nil {
		return nil, newFetchError(target.String(), 0, err)
	}

	ua := userAgents[f.pick(len(userAgents))]
	if f.robots != nil && !f.robots.Allowed(ctx, target, ua) {
		return nil, &FetchError{URL: target.String(), Hint: "blocked by robots.txt"}
	}

	page, err := f.fetchOnce(ctx, target.String(), ua)
	if err != nil {
		status := 0
		if page != nil {
			status = page.StatusCode
		}
		return nil, newFetchError(target.String(), status, err)
	}
	return page, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, target, ua string) (*Page, error) {
	c := f.newCollector(ctx, ua)

	var (
		page   *Page
		reqErr error
	)
	c.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:        target,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			HTML:       string(r.Body),
			FetchedAt:  time.Now().UTC(),
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			page = &Page{URL: target, StatusCode: r.StatusCode}
		}
		reqErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Request(http.MethodGet, target, nil, colly.NewContext(), defaultHeaders.Clone())
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return page, err
		}
	}
	if reqErr != nil {
		return page, reqErr
	}
	if page == nil {
		return nil, errors.New("empty response")
	}
	if page.StatusCode >= http.StatusBadRequest {
		return page, fmt.Errorf("status %d", page.StatusCode)
	}
	return page, nil
}

func (f *Fetcher) newCollector(ctx context.Context, ua string) *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(ua), colly.AllowURLRevisit())
	c.IgnoreRobotsTxt = true
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(f.cfg.Timeout)
	c.WithTransport(&contextTransport{parent: ctx, base: f.transport})

	maxRedirects := f.cfg.MaxRedirects
	c.SetRedirectHandler(func(_ *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return errTooManyRedirects
		}
		return nil
	})

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	return c
}

func (f *Fetcher) waitForHost(ctx context.Context, host string) error {
	if f.cfg.RatePerSecond <= 0 {
		return nil
	}
	return f.limiterFor(host).Wait(ctx)
}

func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	key := normalizeHost(host)
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.hosts[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(f.cfg.RatePerSecond), f.cfg.Burst)
	f.hosts[key] = l
	return l
}

func newFetchError(target string, status int, err error) *FetchError {
	return &FetchError{URL: target, Status: status, Hint: hintFor(status, err), Err: err}
}

func hintFor(status int, err error) string {
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return fmt.Sprintf("the site refused automated access (status %d)", status)
	case status == http.StatusNotFound || status == http.StatusGone:
		return "the job posting was not found; it may have expired"
	case status >= 500:
		return "the site returned a server error; try again later"
	case status >= 400:
		return fmt.Sprintf("the site rejected the request (status %d)", status)
	case errors.Is(err, errTooManyRedirects):
		return "the page redirected too many times"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "the request timed out; the site may be slow or blocking automated requests"
	case errors.As(err, &dnsErr):
		return "the host name could not be resolved; check the URL"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "the request timed out; the site may be slow or blocking automated requests"
	case err != nil && strings.Contains(strings.ToLower(err.Error()), "connection refused"):
		return "the site refused the connection"
	default:
		return "the page could not be downloaded"
	}
}

func normalizeURL(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

// contextTransport ties each request to the caller's context in addition to the client's own
// deadline, so cancelling the caller aborts the connection.
type contextTransport struct {
	parent context.Context
	base   http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancel(req.Context())
	stop := context.AfterFunc(t.parent, cancel)
	release := func() {
		stop()
		cancel()
	}
	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		release()
		return nil, err
	}
	resp.Body = &releasingBody{ReadCloser: resp.Body, release: release}
	return resp, nil
}

type releasingBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}
