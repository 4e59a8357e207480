package scraper

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

// Registry maps site identifiers to their extractors. Sites without an entry use the
// generic tiers only.
type Registry struct {
	sites    map[urlutil.Site]SiteExtractor
	generic  SiteExtractorFunc
	advanced SiteExtractorFunc
}

// SiteExtractorFunc adapts a plain function to the extraction tiers.
type SiteExtractorFunc func(doc *goquery.Document, pageURL *url.URL) (Record, bool)

// NewRegistry returns an empty registry with the generic tiers installed.
func NewRegistry() *Registry {
	return &Registry{
		sites:    make(map[urlutil.Site]SiteExtractor),
		generic:  GenericExtractor{}.Extract,
		advanced: AdvancedExtractor{}.Extract,
	}
}

// DefaultRegistry registers an extractor for every known site.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []siteProfile{
		linkedInProfile, indeedProfile, glassdoorProfile, monsterProfile, zipRecruiterProfile,
		diceProfile, stackOverflowProfile, gitHubProfile,
	} {
		r.Register(newSelectorExtractor(p))
	}
	r.Register(NewAmazonExtractor())
	r.Register(NewFlipkartExtractor())
	return r
}

// Register installs ext for its site, replacing any previous entry.
func (r *Registry) Register(ext SiteExtractor) {
	r.sites[ext.Site()] = ext
}

// Lookup returns the extractor registered for site.
func (r *Registry) Lookup(site urlutil.Site) (SiteExtractor, bool) {
	ext, ok := r.sites[site]
	return ext, ok
}

// Fallback returns the URL-only fallback for site, if its extractor has one.
func (r *Registry) Fallback(site urlutil.Site) (URLFallback, bool) {
	ext, ok := r.sites[site]
	if !ok {
		return nil, false
	}
	fb, ok := ext.(URLFallback)
	return fb, ok
}

// Extract runs the tiers for site: the site extractor, then generic, then advanced generic.
// It stops at the first tier that yields a title; fields it left empty are filled from the
// earlier tiers' partial results. ErrExtractionEmpty is returned when no tier finds a title.
func (r *Registry) Extract(site urlutil.Site, doc *goquery.Document, pageURL *url.URL) (Record, error) {
	var partial Record
	tiers := make([]SiteExtractorFunc, 0, 3)
	if ext, ok := r.sites[site]; ok {
		tiers = append(tiers, ext.Extract)
	}
	tiers = append(tiers, r.generic, r.advanced)

	for i, tier := range tiers {
		rec, ok, err := safeExtract(tier, doc, pageURL)
		if err != nil {
			slog.Warn("extractor panicked", "site", site, "tier", i, "error", err)
			continue
		}
		if ok {
			return fillMissing(rec, partial), nil
		}
		partial = fillMissing(partial, rec)
	}
	return partial, ErrExtractionEmpty
}

// ParseHTML parses a fetched page.
func ParseHTML(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func safeExtract(fn SiteExtractorFunc, doc *goquery.Document, pageURL *url.URL) (rec Record, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	rec, ok = fn(doc, pageURL)
	return rec, ok, nil
}

// fillMissing returns primary with its empty fields taken from secondary.
func fillMissing(primary, secondary Record) Record {
	if primary.Title == "" {
		primary.Title = secondary.Title
	}
	if primary.Company == "" {
		primary.Company = secondary.Company
	}
	if primary.Location == "" {
		primary.Location = secondary.Location
	}
	if primary.Description == "" {
		primary.Description = secondary.Description
	}
	if len(primary.Skills) == 0 {
		primary.Skills = secondary.Skills
	}
	if primary.Salary == "" {
		primary.Salary = secondary.Salary
	}
	if primary.JobType == "" {
		primary.JobType = secondary.JobType
	}
	if primary.Experience == "" {
		primary.Experience = secondary.Experience
	}
	if primary.ApplyLink == "" {
		primary.ApplyLink = secondary.ApplyLink
	}
	if primary.Source == "" {
		primary.Source = secondary.Source
	}
	return primary
}
