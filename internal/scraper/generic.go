package scraper

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-extractor/internal/skills"
)

// GenericExtractor handles pages from unknown sites: schema.org JobPosting data first,
// then a short list of broad selectors.
type GenericExtractor struct{}

var genericTitle = ladder{
	{Selector: "h1"},
	{Selector: "[class*='job-title']"},
	attr("meta[property='og:title']", "content"),
	{Selector: "title"},
}

var genericCompany = ladder{
	{Selector: "[class*='company-name']"},
	{Selector: "[class*='companyName']"},
	attr("meta[property='og:site_name']", "content"),
}

var genericLocation = css("[class*='job-location']", "[class*='jobLocation']", ".location")

var genericBody = append(blocks(
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
), attr("meta[name='description']", "content"))

func (GenericExtractor) Extract(doc *goquery.Document, pageURL *url.URL) (Record, bool) {
	rec := Record{Source: SourceGeneric}
	if posting, ok := findJSONLDPosting(doc); ok {
		rec = posting
	}
	if rec.Title == "" {
		rec.Title = pageTitle(genericTitle.first(doc))
	}
	if rec.Company == "" {
		rec.Company = genericCompany.first(doc)
	}
	if rec.Location == "" {
		rec.Location = genericLocation.first(doc)
	}
	if rec.Description == "" {
		rec.Description = genericBody.first(doc)
	}
	if rec.Salary == "" {
		rec.Salary = ExtractSalary(rec.Description)
	}
	if pageURL != nil && rec.ApplyLink == "" {
		rec.ApplyLink = pageURL.String()
	}
	rec.Skills = skills.Extract(rec.Description)
	return rec, rec.Title != ""
}

// pageTitle drops the site suffix from document titles such as "Engineer | Acme Careers".
func pageTitle(t string) string {
	if i := strings.Index(t, " | "); i > 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

func findJSONLDPosting(doc *goquery.Document) (Record, bool) {
	if doc == nil {
		return Record{}, false
	}
	var (
		found Record
		ok    bool
	)
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		postings := parseJSONLDPostings(s.Text())
		if len(postings) == 0 {
			return true
		}
		found, ok = postings[0], true
		return false
	})
	return found, ok
}

func parseJSONLDPostings(raw string) []Record {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	var out []Record
	findJobPostings(payload, &out)
	return out
}

func findJobPostings(payload any, out *[]Record) {
	switch t := payload.(type) {
	case map[string]any:
		if rec, ok := recordFromJSONLD(t); ok {
			*out = append(*out, rec)
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				findJobPostings(item, out)
			}
		}
	case []any:
		for _, item := range t {
			findJobPostings(item, out)
		}
	}
}

func recordFromJSONLD(payload map[string]any) (Record, bool) {
	if !isJobPostingType(payload["@type"]) {
		return Record{}, false
	}
	rec := Record{
		Title:       stringField(payload["title"]),
		Company:     orgName(payload["hiringOrganization"]),
		Location:    parseLocation(payload["jobLocation"]),
		Description: HTMLToText(stringField(payload["description"])),
		Salary:      parseSalary(payload["baseSalary"]),
		JobType:     employmentType(payload["employmentType"]),
		ApplyLink:   stringField(payload["url"]),
		Source:      SourceJSONLD,
	}
	if rec.Location == "" && stringField(payload["jobLocationType"]) == "TELECOMMUTE" {
		rec.Location = "Remote"
	}
	if rec.Title == "" && rec.Description == "" {
		return Record{}, false
	}
	return rec, true
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any:
		if val, ok := t["@value"]; ok {
			return stringField(val)
		}
	}
	return ""
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func orgName(v any) string {
	if name := stringField(v); name != "" {
		return name
	}
	if org, ok := v.(map[string]any); ok {
		return stringField(org["name"])
	}
	return ""
}

func parseLocation(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if loc := parseLocation(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		if addr, ok := t["address"].(map[string]any); ok {
			return joinParts(
				stringField(addr["addressLocality"]),
				stringField(addr["addressRegion"]),
				countryName(addr["addressCountry"]),
			)
		}
		if name := stringField(t["name"]); name != "" {
			return name
		}
	}
	return ""
}

func countryName(v any) string {
	if s := stringField(v); s != "" {
		return s
	}
	if m, ok := v.(map[string]any); ok {
		return stringField(m["name"])
	}
	return ""
}

// parseSalary formats a schema.org MonetaryAmount such as
// {"currency":"USD","value":{"minValue":100000,"maxValue":150000,"unitText":"YEAR"}}.
func parseSalary(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return stringField(v)
	}
	cur := stringField(m["currency"])
	var lo, hi, unit string
	switch val := m["value"].(type) {
	case map[string]any:
		lo = stringField(val["minValue"])
		hi = stringField(val["maxValue"])
		if single := stringField(val["value"]); lo == "" && single != "" {
			lo = single
		}
		unit = strings.ToLower(stringField(val["unitText"]))
	default:
		lo = stringField(val)
	}
	if lo == "" && hi == "" {
		return ""
	}
	out := strings.TrimSpace(cur + " " + lo)
	if hi != "" && hi != lo {
		if lo == "" {
			out = strings.TrimSpace(cur + " " + hi)
		} else {
			out = fmt.Sprintf("%s - %s", out, hi)
		}
	}
	if unit != "" {
		out += " per " + unit
	}
	return out
}

var employmentTypes = map[string]string{
	"FULL_TIME":  "Full-time",
	"PART_TIME":  "Part-time",
	"CONTRACTOR": "Contract",
	"TEMPORARY":  "Contract",
	"INTERN":     "Internship",
	"VOLUNTEER":  "Volunteer",
	"PER_DIEM":   "Contract",
}

func employmentType(v any) string {
	raw := stringField(v)
	if list, ok := v.([]any); ok && len(list) > 0 {
		raw = stringField(list[0])
	}
	if label, ok := employmentTypes[strings.ToUpper(strings.ReplaceAll(raw, "-", "_"))]; ok {
		return label
	}
	return raw
}

func joinParts(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(p))
	}
	return strings.Join(out, ", ")
}
