package scraper

import (
	"errors"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

// ErrExtractionEmpty means no extraction tier produced a title.
var ErrExtractionEmpty = errors.New("extraction produced no title")

// Source labels for the tier that produced a record.
const (
	SourceGeneric         = "generic"
	SourceJSONLD          = "json-ld"
	SourceAdvancedGeneric = "advanced-generic"
	SourceURLFallback     = "url-fallback"
)

// Record is one extractor's output. The merger and cleaner keep the same shape.
type Record struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Salary      string   `json:"salary"`
	JobType     string   `json:"jobType"`
	Experience  string   `json:"experience"`
	ApplyLink   string   `json:"applyLink"`
	Source      string   `json:"source"`
}

// SiteExtractor pulls a record out of a parsed page for one known job board.
// ok is false when the page yielded no title.
type SiteExtractor interface {
	Site() urlutil.Site
	Extract(doc *goquery.Document, pageURL *url.URL) (Record, bool)
}

// URLFallback builds a record from the URL alone. Implementations never fail.
type URLFallback interface {
	FromURL(pageURL *url.URL) Record
}

// Normalizer turns HTML into plain text.
type Normalizer interface {
	Normalize(htmlContent string) (string, error)
}
