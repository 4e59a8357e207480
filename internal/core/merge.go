package core

import (
	"strings"

	"github.com/baxromumarov/job-extractor/internal/ruletable"
	"github.com/baxromumarov/job-extractor/internal/scraper"
	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

// KnownCompanies maps employer career-site domains to the company name.
var KnownCompanies = ruletable.Table{
	ruletable.Contains("amazon", []string{"amazon.jobs", "amazon.com", "amazon.in"}, "Amazon"),
	ruletable.Contains("flipkart", []string{"flipkart"}, "Flipkart"),
	ruletable.Contains("google", []string{"careers.google", "google.com"}, "Google"),
	ruletable.Contains("microsoft", []string{"microsoft.com"}, "Microsoft"),
	ruletable.Contains("meta", []string{"metacareers.com", "facebook.com"}, "Meta"),
	ruletable.Contains("apple", []string{"jobs.apple.com", "apple.com"}, "Apple"),
	ruletable.Contains("netflix", []string{"netflix"}, "Netflix"),
	ruletable.Contains("uber", []string{"uber.com"}, "Uber"),
	ruletable.Contains("airbnb", []string{"airbnb"}, "Airbnb"),
	ruletable.Contains("stripe", []string{"stripe.com"}, "Stripe"),
	ruletable.Contains("shopify", []string{"shopify"}, "Shopify"),
	ruletable.Contains("atlassian", []string{"atlassian"}, "Atlassian"),
	ruletable.Contains("infosys", []string{"infosys"}, "Infosys"),
	ruletable.Contains("tcs", []string{"tcs.com"}, "Tata Consultancy Services"),
	ruletable.Contains("wipro", []string{"wipro"}, "Wipro"),
	ruletable.Contains("swiggy", []string{"swiggy"}, "Swiggy"),
	ruletable.Contains("zomato", []string{"zomato"}, "Zomato"),
}

// Merge fills the fields the extractor left empty from the URL hints. Company additionally
// falls back to KnownCompanies.
func Merge(rec scraper.Record, hints urlutil.Hints, domain string) scraper.Record {
	rec.Title = firstNonEmpty(rec.Title, hints.Title)
	rec.Company = firstNonEmpty(rec.Company, hints.Company, KnownCompanies.Value(domain))
	rec.Location = firstNonEmpty(rec.Location, hints.Location)
	rec.JobType = firstNonEmpty(rec.JobType, hints.JobType)
	rec.Experience = firstNonEmpty(rec.Experience, hints.Experience)
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
