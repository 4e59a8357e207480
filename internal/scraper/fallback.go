package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-extractor/internal/ruletable"
	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

// Needles run against the lowercased URL with separators turned into dashes.
var cityRules = ruletable.Table{
	ruletable.Contains("seattle", []string{"seattle"}, "Seattle, WA"),
	ruletable.Contains("bellevue", []string{"bellevue"}, "Bellevue, WA"),
	ruletable.Contains("sunnyvale", []string{"sunnyvale"}, "Sunnyvale, CA"),
	ruletable.Contains("san_francisco", []string{"san-francisco", "-sf-"}, "San Francisco, CA"),
	ruletable.Contains("new_york", []string{"new-york", "-nyc-"}, "New York, NY"),
	ruletable.Contains("austin", []string{"austin"}, "Austin, TX"),
	ruletable.Contains("arlington", []string{"arlington"}, "Arlington, VA"),
	ruletable.Contains("boston", []string{"boston"}, "Boston, MA"),
	ruletable.Contains("bangalore", []string{"bangalore", "bengaluru", "-blr-"}, "Bangalore, India"),
	ruletable.Contains("hyderabad", []string{"hyderabad"}, "Hyderabad, India"),
	ruletable.Contains("chennai", []string{"chennai"}, "Chennai, India"),
	ruletable.Contains("mumbai", []string{"mumbai"}, "Mumbai, India"),
	ruletable.Contains("pune", []string{"-pune-"}, "Pune, India"),
	ruletable.Contains("gurgaon", []string{"gurgaon", "gurugram"}, "Gurgaon, India"),
	ruletable.Contains("noida", []string{"noida"}, "Noida, India"),
	ruletable.Contains("delhi", []string{"delhi"}, "Delhi, India"),
	ruletable.Contains("london", []string{"london"}, "London, UK"),
	ruletable.Contains("dublin", []string{"dublin"}, "Dublin, Ireland"),
	ruletable.Contains("berlin", []string{"berlin"}, "Berlin, Germany"),
	ruletable.Contains("toronto", []string{"toronto"}, "Toronto, Canada"),
	ruletable.Contains("vancouver", []string{"vancouver"}, "Vancouver, Canada"),
}

var fallbackExperienceRules = ruletable.Table{
	ruletable.Contains("intern", []string{"-intern-", "internship", "-interns-"}, "Entry"),
	ruletable.Contains("senior", []string{"senior", "-sr-", "-lead-", "principal", "-sde-iii-", "-sde-3-"}, "Senior"),
	ruletable.Contains("junior", []string{"junior", "-jr-", "graduate", "new-grad", "fresher", "-entry-"}, "Entry"),
}

var urlFlattener = strings.NewReplacer("/", "-", ".", "-", "_", "-", "?", "-", "&", "-", "=", "-", "+", "-", "%20", "-")

// companySiteExtractor serves single-employer career sites. Extract always succeeds: when
// the page yields no title the record is rebuilt from the URL.
type companySiteExtractor struct {
	*selectorExtractor
	defaultCity string
}

// NewAmazonExtractor returns the amazon.jobs extractor.
func NewAmazonExtractor() SiteExtractor {
	return &companySiteExtractor{selectorExtractor: newSelectorExtractor(amazonProfile), defaultCity: "Seattle, WA"}
}

// NewFlipkartExtractor returns the Flipkart careers extractor.
func NewFlipkartExtractor() SiteExtractor {
	return &companySiteExtractor{selectorExtractor: newSelectorExtractor(flipkartProfile), defaultCity: "Bangalore, India"}
}

func (e *companySiteExtractor) Extract(doc *goquery.Document, pageURL *url.URL) (rec Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rec, ok = e.FromURL(pageURL), true
		}
	}()
	rec, ok = e.selectorExtractor.Extract(doc, pageURL)
	if !ok {
		return e.FromURL(pageURL), true
	}
	return fillMissing(rec, e.FromURL(pageURL)), true
}

// FromURL derives a deterministic record from the posting URL alone.
func (e *companySiteExtractor) FromURL(pageURL *url.URL) Record {
	company := e.profile.company
	rec := Record{
		Company: company,
		Source:  string(e.profile.site) + "-" + SourceURLFallback,
	}
	if pageURL == nil {
		rec.Title = company + " Opportunity"
		rec.Location = e.defaultCity
		rec.Description = genericDescription(rec.Title, company)
		return rec
	}

	flat := "-" + urlFlattener.Replace(strings.ToLower(pageURL.String())) + "-"
	rec.ApplyLink = pageURL.String()
	rec.Title = urlutil.TitleFromSegment(urlutil.LastSegment(pageURL))
	if rec.Title == "" {
		rec.Title = company + " Opportunity"
	}
	rec.Location = cityRules.Value(flat)
	if rec.Location == "" {
		rec.Location = e.defaultCity
	}
	rec.Experience = fallbackExperienceRules.Value(flat)
	if _, name, ok := fallbackExperienceRules.First(flat); ok && name == "intern" {
		rec.JobType = "Internship"
	}
	rec.Description = genericDescription(rec.Title, company)
	return rec
}

func genericDescription(title, company string) string {
	return fmt.Sprintf("%s position at %s. Full details are available on the original posting.", title, company)
}
