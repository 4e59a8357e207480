package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baxromumarov/job-extractor/internal/ruletable"
)

// ErrInvalidURL marks input that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid url")

// Hints are weak, URL-derived signals about a job posting.
type Hints struct {
	Domain       string     `json:"domain"`
	PathSegments []string   `json:"pathSegments"`
	Query        url.Values `json:"queryParams"`
	Title        string     `json:"title,omitempty"`
	Company      string     `json:"company,omitempty"`
	Location     string     `json:"location,omitempty"`
	JobType      string     `json:"jobType,omitempty"`
	Experience   string     `json:"experience,omitempty"`
}

var (
	trailingIDPattern = regexp.MustCompile(`(?i)(?:[\s-]+(?:jid|id|job|req)?[\s-]*\d{3,}[a-z0-9]*)+$`)
	leadingIDPattern  = regexp.MustCompile(`^\d+[\s-]+`)
	atCompanyPattern  = regexp.MustCompile(`(?i)\s+at\s+.+$`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// Segments that never describe a posting on their own.
var genericSegments = map[string]struct{}{
	"search":  {},
	"results": {},
	"list":    {},
	"index":   {},
	"view":    {},
	"details": {},
	"detail":  {},
	"jobs":    {},
	"job":     {},
	"careers": {},
	"apply":   {},
	"en":      {},
}

var titleRules = ruletable.Table{
	ruletable.Regex("query_title", `(?i)[?&](?:title|job_?title|position|q|keywords?)=([^&#]+)`, cleanQueryValue),
	ruletable.Regex("jobs_view", `(?i)/jobs/view/([^/?#]+)`, cleanTitleSegment),
	ruletable.Regex("job_path", `(?i)/jobs?/(?:details?/)?([^/?#]+)/?(?:[?#]|$)`, cleanTitleSegment),
	ruletable.Regex("position_path", `(?i)/(?:positions?|careers?|openings?|vacanc(?:y|ies)|role)/([^/?#]+)/?(?:[?#]|$)`, cleanTitleSegment),
}

var companyRules = ruletable.Table{
	ruletable.Regex("query_company", `(?i)[?&](?:company|employer|org)=([^&#]+)`, cleanQueryValue),
	ruletable.Regex("at_company", `(?i)-at-([a-z0-9][a-z0-9-]*?)(?:-\d+)?(?:[/?#]|$)`, cleanNameSegment),
	ruletable.Regex("company_path", `(?i)/(?:company|companies|cmp|employer)/([^/?#]+)`, cleanNameSegment),
	ruletable.Regex("ats_board", `(?i)(?:jobs\.lever\.co|boards\.greenhouse\.io|job-boards\.greenhouse\.io|jobs\.ashbyhq\.com|apply\.workable\.com)/([^/?#]+)`, cleanNameSegment),
	ruletable.Regex("careers_subdomain", `(?i)^https?://(?:careers|jobs)\.([a-z0-9-]+)\.[a-z.]+(?:[:/?#]|$)`, cleanNameSegment),
}

var locationRules = ruletable.Table{
	ruletable.Regex("query_location", `(?i)[?&](?:location|loc|l|city|where)=([^&#]+)`, cleanQueryValue),
	ruletable.Regex("location_path", `(?i)/locations?/([^/?#]+)`, cleanNameSegment),
	ruletable.Regex("in_city", `(?i)-in-([a-z][a-z-]*?)(?:-\d+)?(?:[/?#]|$)`, cleanNameSegment),
}

// Order matters: the first matching rule wins. Rules run over flattenURL output, so
// "-x-" needles only match whole tokens.
var jobTypeRules = ruletable.Table{
	ruletable.Contains("remote", []string{"remote", "work-from-home", "-wfh-"}, "Remote"),
	ruletable.Contains("hybrid", []string{"hybrid"}, "Hybrid"),
	ruletable.Contains("part_time", []string{"part-time", "parttime"}, "Part-time"),
	ruletable.Contains("contract", []string{"contract", "freelance", "temporary"}, "Contract"),
	ruletable.Contains("internship", []string{"internship", "-intern-"}, "Internship"),
	ruletable.Contains("full_time", []string{"full-time", "fulltime", "permanent"}, "Full-time"),
}

var experienceRules = ruletable.Table{
	ruletable.Contains("senior", []string{"senior", "-sr-", "-lead-", "principal", "-staff-"}, "Senior"),
	ruletable.Contains("mid", []string{"mid-level", "midlevel", "intermediate"}, "Mid"),
	ruletable.Contains("entry", []string{"junior", "-jr-", "entry-level", "-entry-", "graduate", "fresher", "internship", "-intern-"}, "Entry"),
}

var flattener = strings.NewReplacer("/", "-", ".", "-", "_", "-", "?", "-", "&", "-", "=", "-", "+", "-", "#", "-", ":", "-", "%20", "-")

// Parse accepts only absolute http(s) URLs with a host.
func Parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// Analyze derives hints from raw. It never fails: malformed input yields empty hints.
func Analyze(raw string) Hints {
	u, err := Parse(raw)
	if err != nil {
		return Hints{Query: url.Values{}}
	}
	return AnalyzeURL(u)
}

// AnalyzeURL derives hints from an already parsed URL.
func AnalyzeURL(u *url.URL) Hints {
	raw := u.String()
	h := Hints{
		Domain:       Domain(u),
		PathSegments: splitPath(u.EscapedPath()),
		Query:        u.Query(),
	}
	h.Title = titleRules.Value(raw)
	h.Company = companyRules.Value(raw)
	h.Location = locationRules.Value(raw)
	flat := flattenURL(raw)
	h.JobType = jobTypeRules.Value(flat)
	h.Experience = experienceRules.Value(flat)
	return h
}

// Domain returns the learning key for u: the lowercased hostname without "www.".
func Domain(u *url.URL) string {
	if u == nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// TitleFromSegment turns a slug such as "12345-software-development-engineer" into
// "Software Development Engineer".
func TitleFromSegment(seg string) string {
	return cleanTitleSegment(seg)
}

// LastSegment returns the last non-empty path segment of u, preserving case.
func LastSegment(u *url.URL) string {
	if u == nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}

// flattenURL lowercases raw and turns URL separators into dashes, padded on both ends.
func flattenURL(raw string) string {
	return "-" + flattener.Replace(strings.ToLower(raw)) + "-"
}

// TitleCase title-cases s. A cases.Caser is stateful, so one is built per call.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func cleanQueryValue(v string) string {
	if dec, err := url.QueryUnescape(v); err == nil {
		v = strings.ToValidUTF8(dec, "")
	}
	return collapse(strings.NewReplacer("+", " ", "_", " ").Replace(v))
}

func cleanNameSegment(v string) string {
	v = decodeSegment(v)
	v = trailingIDPattern.ReplaceAllString(v, "")
	v = collapse(v)
	if isGeneric(v) {
		return ""
	}
	return TitleCase(v)
}

func cleanTitleSegment(v string) string {
	v = decodeSegment(v)
	v = leadingIDPattern.ReplaceAllString(v, "")
	v = trailingIDPattern.ReplaceAllString(v, "")
	v = atCompanyPattern.ReplaceAllString(v, "")
	v = collapse(v)
	if isGeneric(v) || isNumeric(v) {
		return ""
	}
	return TitleCase(v)
}

func decodeSegment(v string) string {
	if dec, err := url.PathUnescape(v); err == nil {
		v = strings.ToValidUTF8(dec, "")
	}
	v = strings.TrimSuffix(v, ".html")
	return strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(v)
}

func collapse(v string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(v, " "))
}

func isGeneric(v string) bool {
	_, ok := genericSegments[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

func isNumeric(v string) bool {
	v = strings.ReplaceAll(v, " ", "")
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return []string{}
	}
	parts := strings.Split(trimmed, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		if dec, err := url.PathUnescape(part); err == nil {
			part = dec
		}
		out = append(out, part)
	}
	return out
}
