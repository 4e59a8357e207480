package observability

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StatsSnapshot struct {
	ScrapesTotal      uint64            `json:"scrapes_total"`
	ScrapesSucceeded  uint64            `json:"scrapes_succeeded"`
	PagesFetched      uint64            `json:"pages_fetched"`
	ErrorsTotal       uint64            `json:"errors_total"`
	ScrapeSecondsAvg  float64           `json:"scrape_seconds_avg"`
	TierDecisions     map[string]uint64 `json:"tier_decisions,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	scrapesTotal     uint64
	scrapesSucceeded uint64
	pagesFetched     uint64
	errorsTotal      uint64

	scrapeCount uint64
	scrapeNanos uint64

	statsMu           sync.Mutex
	tierDecisions     = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}

	metricsOnce     sync.Once
	metricsReady    atomic.Bool
	scrapesCounter  *prometheus.CounterVec
	pagesCounter    *prometheus.CounterVec
	tierCounter     *prometheus.CounterVec
	errorsCounter   *prometheus.CounterVec
	scrapeHistogram *prometheus.HistogramVec
)

// RegisterMetrics creates the Prometheus collectors. It is safe to call more than once.
func RegisterMetrics() {
	metricsOnce.Do(func() {
		scrapesCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobextract_scrapes_total",
				Help: "Scrape calls, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)
		pagesCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobextract_pages_fetched_total",
				Help: "Pages fetched successfully, labeled by site.",
			},
			[]string{"site"},
		)
		tierCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobextract_extraction_tier_total",
				Help: "Extraction tier that produced the record.",
			},
			[]string{"tier"},
		)
		errorsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobextract_errors_total",
				Help: "Errors, labeled by kind and component.",
			},
			[]string{"kind", "component"},
		)
		scrapeHistogram = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobextract_scrape_duration_seconds",
				Help:    "Duration of scrape calls.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"site"},
		)
		metricsReady.Store(true)
	})
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func registered() bool {
	return metricsReady.Load()
}

func IncPagesFetched(site string) {
	atomic.AddUint64(&pagesFetched, 1)
	if registered() {
		pagesCounter.WithLabelValues(label(site)).Inc()
	}
}

// IncTierDecision counts the extraction tier (site name, generic, json-ld, ...) that won.
func IncTierDecision(tier string) {
	tier = label(tier)
	statsMu.Lock()
	tierDecisions[tier]++
	statsMu.Unlock()
	if registered() {
		tierCounter.WithLabelValues(tier).Inc()
	}
}

// ObserveScrape records one finished scrape call.
func ObserveScrape(site string, success bool, seconds float64) {
	atomic.AddUint64(&scrapesTotal, 1)
	outcome := "failure"
	if success {
		outcome = "success"
		atomic.AddUint64(&scrapesSucceeded, 1)
	}
	if seconds > 0 {
		atomic.AddUint64(&scrapeCount, 1)
		atomic.AddUint64(&scrapeNanos, uint64(seconds*1e9))
	}
	if registered() {
		scrapesCounter.WithLabelValues(label(site), outcome).Inc()
		if seconds > 0 {
			scrapeHistogram.WithLabelValues(label(site)).Observe(seconds)
		}
	}
}

func IncError(errType, component string) {
	errType, component = label(errType), label(component)
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
	if registered() {
		errorsCounter.WithLabelValues(errType, component).Inc()
	}
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	tierCopy := copyMap(tierDecisions)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&scrapeCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&scrapeNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		ScrapesTotal:      atomic.LoadUint64(&scrapesTotal),
		ScrapesSucceeded:  atomic.LoadUint64(&scrapesSucceeded),
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		ScrapeSecondsAvg:  avg,
		TierDecisions:     tierCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
