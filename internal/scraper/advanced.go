package scraper

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-extractor/internal/skills"
)

const (
	minTitleLen       = 5
	maxTitleLen       = 100
	minDescriptionLen = 200
)

// AdvancedExtractor is the last extraction tier: a wide attribute-substring ladder whose
// matches are filtered by content shape.
type AdvancedExtractor struct{}

var advancedTitle = ladder{
	{Selector: "[itemprop='title']"},
	{Selector: "[data-testid*='title']"},
	{Selector: "[class*='job-title']"},
	{Selector: "[class*='jobTitle']"},
	{Selector: "[class*='title']"},
	{Selector: "[class*='Title']"},
	{Selector: "[id*='title']"},
	attr("meta[property='og:title']", "content"),
	attr("meta[name='twitter:title']", "content"),
	{Selector: "h2"},
}

var advancedCompany = ladder{
	{Selector: "[itemprop='hiringOrganization'] [itemprop='name']"},
	{Selector: "[itemprop='hiringOrganization']"},
	{Selector: "[data-testid*='company']"},
	{Selector: "[class*='company']"},
	{Selector: "[class*='employer']"},
	attr("meta[property='og:site_name']", "content"),
}

var advancedLocation = ladder{
	{Selector: "[itemprop='jobLocation']"},
	{Selector: "[itemprop='addressLocality']"},
	{Selector: "[data-testid*='location']"},
	{Selector: "[class*='location']"},
	{Selector: "[class*='Location']"},
}

var advancedDescription = ladder{
	{Selector: "[itemprop='description']", Block: true},
	{Selector: "[data-testid*='description']", Block: true},
	{Selector: "[class*='description']", Block: true},
	{Selector: "[class*='Description']", Block: true},
	{Selector: "[id*='description']", Block: true},
	{Selector: "[class*='job-details']", Block: true},
	{Selector: "[class*='content']", Block: true},
	attr("meta[name='description']", "content"),
	attr("meta[property='og:description']", "content"),
}

var advancedSalary = css(
	"[itemprop='baseSalary']",
	"[data-testid*='salary']",
	"[class*='salary']",
	"[class*='compensation']",
)

var navText = map[string]struct{}{
	"home": {}, "menu": {}, "jobs": {}, "careers": {}, "search": {}, "search jobs": {},
	"sign in": {}, "sign up": {}, "log in": {}, "login": {}, "register": {}, "apply": {},
	"apply now": {}, "back": {}, "back to jobs": {}, "share": {}, "save": {}, "save job": {},
	"skip to content": {}, "skip to main content": {}, "cookie settings": {}, "accept cookies": {},
	"view all jobs": {}, "similar jobs": {}, "related jobs": {}, "job details": {},
	"job description": {}, "about us": {}, "contact us": {}, "privacy policy": {},
}

func (AdvancedExtractor) Extract(doc *goquery.Document, pageURL *url.URL) (Record, bool) {
	rec := Record{
		Title:       pageTitle(advancedTitle.firstAccepted(doc, plausibleTitle)),
		Company:     advancedCompany.firstAccepted(doc, lengthBetween(2, 80)),
		Location:    advancedLocation.firstAccepted(doc, lengthBetween(2, 80)),
		Description: advancedDescription.firstAccepted(doc, longerThan(minDescriptionLen)),
		Salary:      advancedSalary.firstAccepted(doc, func(s string) bool { return hasDigit(s) }),
		Source:      SourceAdvancedGeneric,
	}
	if rec.Salary == "" {
		rec.Salary = ExtractSalary(rec.Description)
	}
	if pageURL != nil {
		rec.ApplyLink = pageURL.String()
	}
	rec.Skills = skills.Extract(rec.Description)
	return rec, rec.Title != ""
}

func plausibleTitle(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	_, nav := navText[strings.ToLower(strings.TrimSpace(s))]
	return !nav
}

func lengthBetween(lo, hi int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= lo && n <= hi
	}
}

func longerThan(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) > n
	}
}
