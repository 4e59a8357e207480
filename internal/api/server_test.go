package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/job-extractor/internal/core"
	"github.com/baxromumarov/job-extractor/internal/learning"
	"github.com/baxromumarov/job-extractor/internal/observability"
	"github.com/baxromumarov/job-extractor/internal/scraper"
)

type fakeScraper struct {
	resp    core.Response
	gotURL  string
	domains []string
}

func (f *fakeScraper) ScrapeJob(_ context.Context, rawURL string) core.Response {
	f.gotURL = rawURL
	resp := f.resp
	resp.URL = rawURL
	return resp
}

func (f *fakeScraper) TestScraping(_ context.Context, rawURL string) core.TestResult {
	f.gotURL = rawURL
	return core.TestResult{Success: f.resp.Success, Data: f.resp.Data, URL: rawURL, Timestamp: time.Unix(0, 0).UTC()}
}

func (f *fakeScraper) LearningStats(domain string) learning.Stats {
	f.domains = append(f.domains, domain)
	return learning.Stats{Domain: domain, IsNewSite: true, Confidence: learning.ConfidenceLow}
}

func (f *fakeScraper) LearningDocument() learning.Document {
	doc := learning.NewDocument()
	doc.Sites["acme.io"] = learning.Profile{Domain: "acme.io", Attempts: 2, SuccessRate: 0.5}
	return doc
}

func serve(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, NewServer(&fakeScraper{}, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestScrapeSuccess(t *testing.T) {
	fake := &fakeScraper{resp: core.Response{
		Success:           true,
		Data:              &scraper.Record{Title: "Go Engineer", Company: "Acme"},
		Source:            scraper.SourceGeneric,
		ExtractionQuality: 35,
	}}
	rec := serve(t, NewServer(fake, nil), http.MethodPost, "/api/scrape", `{"url":" https://acme.io/jobs/go-engineer "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://acme.io/jobs/go-engineer", fake.gotURL)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(35), body["extractionQuality"])
	assert.Equal(t, "Go Engineer", body["data"].(map[string]any)["title"])
}

func TestScrapeFailureStatus(t *testing.T) {
	tests := map[string]int{
		observability.ErrorTimeout:         http.StatusGatewayTimeout,
		observability.ErrorFetchFailed:     http.StatusBadGateway,
		observability.ErrorExtractionEmpty: http.StatusUnprocessableEntity,
		observability.ErrorCanceled:        statusClientClosedRequest,
	}
	for kind, want := range tests {
		t.Run(kind, func(t *testing.T) {
			fake := &fakeScraper{resp: core.Response{
				ErrorKind:    kind,
				Error:        "failed",
				FallbackData: &scraper.Record{Title: "Job Opportunity"},
			}}
			rec := serve(t, NewServer(fake, nil), http.MethodPost, "/api/scrape", `{"url":"https://acme.io/x"}`)
			assert.Equal(t, want, rec.Code)

			var body core.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.FallbackData)
			assert.Equal(t, "Job Opportunity", body.FallbackData.Title)
		})
	}
}

func TestScrapeRejectsBadRequests(t *testing.T) {
	tests := map[string]string{
		"malformed json": `{"url":`,
		"missing url":    `{}`,
		"relative url":   `{"url":"/jobs/1"}`,
		"non http":       `{"url":"ftp://acme.io/jobs/1"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			fake := &fakeScraper{}
			rec := serve(t, NewServer(fake, nil), http.MethodPost, "/api/scrape", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, fake.gotURL)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestTestScrape(t *testing.T) {
	fake := &fakeScraper{resp: core.Response{Success: true, Data: &scraper.Record{Title: "SRE"}}}
	srv := NewServer(fake, nil)

	rec := serve(t, srv, http.MethodGet, "/api/scrape/test?url=https%3A%2F%2Facme.io%2Fjobs%2Fsre", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://acme.io/jobs/sre", fake.gotURL)

	rec = serve(t, srv, http.MethodGet, "/api/scrape/test", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLearningEndpoints(t *testing.T) {
	fake := &fakeScraper{}
	srv := NewServer(fake, nil)

	rec := serve(t, srv, http.MethodGet, "/api/learning/WWW.Acme.io", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"acme.io"}, fake.domains)

	var stats learning.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.True(t, stats.IsNewSite)
	assert.Equal(t, learning.ConfidenceLow, stats.Confidence)

	rec = serve(t, srv, http.MethodGet, "/api/learning", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc learning.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 2, doc.Sites["acme.io"].Attempts)
}

func TestStatsAndMetrics(t *testing.T) {
	srv := NewServer(&fakeScraper{}, nil)

	rec := serve(t, srv, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scrapes_total")

	rec = serve(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := NewServer(&fakeScraper{}, []string{"https://forms.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/scrape", nil)
	req.Header.Set("Origin", "https://forms.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "https://forms.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
