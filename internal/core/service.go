package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/baxromumarov/job-extractor/internal/httpx"
	"github.com/baxromumarov/job-extractor/internal/learning"
	"github.com/baxromumarov/job-extractor/internal/observability"
	"github.com/baxromumarov/job-extractor/internal/scraper"
	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

const (
	DefaultScrapeTimeout = 15 * time.Second

	// TimeoutMessage is the failure text returned when the deadline wins.
	TimeoutMessage = "Scraping timeout"

	// unknownDomain keys learning statistics for URLs without a usable host.
	unknownDomain = "unknown"
)

var (
	// ErrTimeout is returned when the scrape deadline expires before the pipeline finishes.
	ErrTimeout = errors.New("scraping timeout")

	// ErrCanceled is returned when the caller's context is canceled mid-scrape.
	ErrCanceled = errors.New("scrape canceled by caller")

	errPipelinePanic = errors.New("pipeline panic")
)

// PageFetcher downloads one page. *httpx.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*httpx.Page, error)
}

// Response is the outcome of ScrapeJob. On success Data holds the cleaned record; on
// failure Error and FallbackData are set instead.
type Response struct {
	Success           bool            `json:"success"`
	Data              *scraper.Record `json:"data,omitempty"`
	Source            string          `json:"source,omitempty"`
	URL               string          `json:"url"`
	ExtractionQuality int             `json:"extractionQuality"`
	LearningStats     learning.Stats  `json:"learningStats"`
	Error             string          `json:"error,omitempty"`
	ErrorKind         string          `json:"errorKind,omitempty"`
	Hint              string          `json:"hint,omitempty"`
	FallbackData      *scraper.Record `json:"fallbackData,omitempty"`
}

// TestResult is the diagnostic view returned by TestScraping.
type TestResult struct {
	Success   bool            `json:"success"`
	Data      *scraper.Record `json:"data,omitempty"`
	Source    string          `json:"source,omitempty"`
	URL       string          `json:"url"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Service runs the extraction pipeline and records every outcome in the learning store.
type Service struct {
	fetcher    PageFetcher
	registry   *scraper.Registry
	normalizer scraper.Normalizer
	store      *learning.Store
	timeout    time.Duration
	now        func() time.Time
}

// NewService wires the pipeline. A non-positive timeout uses DefaultScrapeTimeout and a nil
// registry uses scraper.DefaultRegistry.
func NewService(fetcher PageFetcher, registry *scraper.Registry, store *learning.Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultScrapeTimeout
	}
	if registry == nil {
		registry = scraper.DefaultRegistry()
	}
	return &Service{
		fetcher:    fetcher,
		registry:   registry,
		normalizer: scraper.NewSimpleNormalizer(),
		store:      store,
		timeout:    timeout,
		now:        time.Now,
	}
}

type pipelineResult struct {
	rec scraper.Record
	err error
}

// ScrapeJob extracts a job record from rawURL. It never returns an error: failures are
// reported in the Response together with a best-effort fallback record. The learning store
// is updated before it returns, except when the caller cancels ctx.
func (s *Service) ScrapeJob(ctx context.Context, rawURL string) Response {
	start := s.now()

	u, parseErr := urlutil.Parse(rawURL)
	hints := urlutil.Hints{}
	domain := unknownDomain
	if parseErr == nil {
		hints = urlutil.AnalyzeURL(u)
		if hints.Domain != "" {
			domain = hints.Domain
		}
	}
	site := urlutil.DetectSite(domain)
	stats := s.store.Stats(domain)

	slog.Info("scrape started", "url", rawURL, "domain", domain, "site", site,
		"attempts", stats.Attempts, "confidence", stats.Confidence)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan pipelineResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("scrape pipeline panicked", "url", rawURL, "panic", r)
				done <- pipelineResult{err: fmt.Errorf("%w: %v", errPipelinePanic, r)}
			}
		}()
		if parseErr != nil {
			done <- pipelineResult{err: parseErr}
			return
		}
		rec, err := s.runPipeline(runCtx, u, site)
		done <- pipelineResult{rec: rec, err: err}
	}()

	var res pipelineResult
	select {
	case res = <-done:
	case <-runCtx.Done():
		res.err = runCtx.Err()
	}
	// The pipeline may have failed because the deadline fired or the caller left during the fetch.
	if res.err != nil {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			res.err = fmt.Errorf("%w: %w", ErrCanceled, res.err)
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			res.err = fmt.Errorf("%w: %w", ErrTimeout, res.err)
		}
	}

	// The store write must survive the expired scrape deadline.
	recordCtx := context.WithoutCancel(ctx)

	var resp Response
	if res.err != nil {
		resp = s.failure(recordCtx, rawURL, domain, hints, res.rec, res.err)
	} else {
		resp = s.success(recordCtx, rawURL, domain, hints, res.rec)
	}
	resp.LearningStats = stats

	elapsed := s.now().Sub(start)
	observability.ObserveScrape(string(site), resp.Success, elapsed.Seconds())
	slog.Info("scrape finished", "url", rawURL, "domain", domain, "success", resp.Success,
		"source", resp.Source, "quality", resp.ExtractionQuality, "duration", elapsed)
	return resp
}

// runPipeline fetches, parses and extracts. It never touches the learning store.
func (s *Service) runPipeline(ctx context.Context, u *url.URL, site urlutil.Site) (scraper.Record, error) {
	page, err := s.fetch(ctx, u.String())
	if err != nil {
		return s.urlFallback(ctx, u, site, "fetcher", err)
	}
	observability.IncPagesFetched(string(site))

	doc, err := scraper.ParseHTML(page.HTML)
	if err != nil {
		return s.urlFallback(ctx, u, site, "parser", err)
	}
	return s.registry.Extract(site, doc, u)
}

// fetch calls the fetcher, turning a panic into an error so URL-only sites can still fall back.
func (s *Service) fetch(ctx context.Context, rawURL string) (page *httpx.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("%w: fetcher: %v", errPipelinePanic, r)
		}
	}()
	return s.fetcher.Fetch(ctx, rawURL)
}

// urlFallback recovers from a fetch or parse failure on sites with a URL-only extractor.
func (s *Service) urlFallback(ctx context.Context, u *url.URL, site urlutil.Site, component string, cause error) (scraper.Record, error) {
	fb, ok := s.registry.Fallback(site)
	if !ok || ctx.Err() != nil {
		return scraper.Record{}, cause
	}
	slog.Warn("using url fallback", "url", u.String(), "site", site, "component", component, "error", cause)
	observability.IncError(observability.ClassifyError(cause), component)
	return fb.FromURL(u), nil
}

func (s *Service) success(ctx context.Context, rawURL, domain string, hints urlutil.Hints, rec scraper.Record) Response {
	cleaned := Clean(s.stripMarkup(Merge(rec, hints, domain)), rawURL)
	quality := Quality(cleaned)
	observability.IncTierDecision(cleaned.Source)

	s.record(ctx, domain, &cleaned, float64(quality)/100)

	return Response{
		Success:           true,
		Data:              &cleaned,
		Source:            cleaned.Source,
		URL:               rawURL,
		ExtractionQuality: quality,
	}
}

func (s *Service) failure(ctx context.Context, rawURL, domain string, hints urlutil.Hints, partial scraper.Record, err error) Response {
	kind := observability.ClassifyError(err)
	switch {
	case errors.Is(err, ErrCanceled):
		kind = observability.ErrorCanceled
	case errors.Is(err, ErrTimeout):
		kind = observability.ErrorTimeout
	}
	observability.IncError(kind, "orchestrator")
	slog.Warn("scrape failed", "url", rawURL, "domain", domain, "kind", kind, "error", err)

	// A caller that went away says nothing about how well the domain scrapes.
	if kind != observability.ErrorCanceled {
		s.record(ctx, domain, nil, 0)
	}

	fallback := Clean(fallbackRecord(s.stripMarkup(partial), hints, domain), rawURL)
	resp := Response{
		Success:      false,
		URL:          rawURL,
		Error:        err.Error(),
		ErrorKind:    kind,
		FallbackData: &fallback,
	}
	if kind == observability.ErrorTimeout {
		resp.Error = TimeoutMessage
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		resp.Hint = fe.Hint
	}
	return resp
}

// record updates the learning store. Persistence failures are logged and counted only.
func (s *Service) record(ctx context.Context, domain string, rec *scraper.Record, sample float64) {
	if _, err := s.store.RecordOutcome(ctx, domain, rec, sample); err != nil {
		observability.IncError(observability.ErrorPersistence, "learning")
		slog.Error("failed to persist learning outcome", "domain", domain, "error", err)
	}
}

// stripMarkup flattens HTML left in single-line fields, as some JSON-LD titles carry tags.
func (s *Service) stripMarkup(rec scraper.Record) scraper.Record {
	for _, field := range []*string{&rec.Title, &rec.Company, &rec.Location, &rec.Salary} {
		if !strings.Contains(*field, "<") {
			continue
		}
		text, err := s.normalizer.Normalize(*field)
		if err != nil {
			slog.Debug("leaving field with markup as is", "error", err)
			continue
		}
		*field = text
	}
	return rec
}

// fallbackRecord builds the best-effort record returned with a failure.
func fallbackRecord(partial scraper.Record, hints urlutil.Hints, domain string) scraper.Record {
	rec := Merge(partial, hints, domain)
	if rec.Company == "" && domain != unknownDomain {
		rec.Company = companyFromDomain(domain)
	}
	if rec.Title == "" {
		rec.Title = "Job Opportunity"
	}
	if rec.Description == "" {
		rec.Description = fallbackDescription(rec.Title, rec.Company)
	}
	rec.Source = scraper.SourceURLFallback
	return rec
}

func fallbackDescription(title, company string) string {
	if company == "" {
		return fmt.Sprintf("%s. Full details are available on the original posting.", title)
	}
	return fmt.Sprintf("%s at %s. Full details are available on the original posting.", title, company)
}

// companyFromDomain title-cases the registrable label of domain, e.g. careers.acme.io -> Acme.
func companyFromDomain(domain string) string {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return urlutil.TitleCase(domain)
	}
	return urlutil.TitleCase(labels[len(labels)-2])
}

// TestScraping runs ScrapeJob and returns the diagnostic view.
func (s *Service) TestScraping(ctx context.Context, rawURL string) TestResult {
	resp := s.ScrapeJob(ctx, rawURL)
	out := TestResult{
		Success:   resp.Success,
		Data:      resp.Data,
		Source:    resp.Source,
		URL:       rawURL,
		Error:     resp.Error,
		Timestamp: s.now().UTC(),
	}
	if !resp.Success {
		out.Data = resp.FallbackData
		if resp.FallbackData != nil {
			out.Source = resp.FallbackData.Source
		}
	}
	return out
}

// LearningStats returns the derived statistics for domain.
func (s *Service) LearningStats(domain string) learning.Stats {
	return s.store.Stats(domain)
}

// LearningDocument returns a copy of the raw learning document.
func (s *Service) LearningDocument() learning.Document {
	return s.store.Document()
}
