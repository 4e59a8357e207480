package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redirectChain(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/r/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if n == 0 {
			fmt.Fprint(w, "<html><body><h1>Landed</h1></body></html>")
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/r/%d", n-1), http.StatusFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReturnsPageWithBrowserHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		fmt.Fprint(w, "<html><head><title>Job</title></head></html>")
	}))
	t.Cleanup(srv.Close)

	page, err := NewFetcher(Config{Timeout: 2 * time.Second}).Fetch(context.Background(), srv.URL+"/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.HTML, "<title>Job</title>")
	assert.Equal(t, srv.URL+"/jobs/1", page.URL)
	got := <-headers
	assert.Contains(t, UserAgents(), got.Get("User-Agent"))
	assert.Equal(t, "en-US,en;q=0.9", got.Get("Accept-Language"))
	assert.Contains(t, got.Get("Accept"), "text/html")
}

func TestFetchStatusErrors(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := NewFetcher(Config{Timeout: 2 * time.Second}).Fetch(context.Background(), srv.URL)
		srv.Close()

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFetchFailed))
		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, status, fe.Status)
		assert.NotEmpty(t, fe.Hint)
	}
}

func TestFetchFollowsUpToThreeRedirects(t *testing.T) {
	t.Parallel()

	srv := redirectChain(t)
	f := NewFetcher(Config{Timeout: 2 * time.Second})

	page, err := f.Fetch(context.Background(), srv.URL+"/r/3")
	require.NoError(t, err)
	assert.Contains(t, page.HTML, "Landed")

	_, err = f.Fetch(context.Background(), srv.URL+"/r/4")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestFetchHonoursContextDeadline(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewFetcher(Config{Timeout: 10 * time.Second}).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchRejectsUnparsableURL(t *testing.T) {
	t.Parallel()

	_, err := NewFetcher(Config{}).Fetch(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestFetchRespectsRobots(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		fmt.Fprint(w, "<html>ok</html>")
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(Config{Timeout: 2 * time.Second, RespectRobots: true})

	_, err := f.Fetch(context.Background(), srv.URL+"/private/job")
	require.Error(t, err)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "blocked by robots.txt", fe.Hint)

	page, err := f.Fetch(context.Background(), srv.URL+"/public/job")
	require.NoError(t, err)
	assert.Contains(t, page.HTML, "ok")
}

func TestLimiterIsPerHost(t *testing.T) {
	t.Parallel()

	f := NewFetcher(Config{RatePerSecond: 1, Burst: 2})
	assert.Same(t, f.limiterFor("www.example.com"), f.limiterFor("example.com"))
	assert.NotSame(t, f.limiterFor("example.com"), f.limiterFor("other.com"))
}
