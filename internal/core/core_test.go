package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/baxromumarov/job-extractor/internal/scraper"
	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

func TestMergeFillsGapsFromHints(t *testing.T) {
	t.Parallel()

	hints := urlutil.Hints{Title: "Backend Engineer", Company: "Acme", Location: "Berlin", JobType: "Remote", Experience: "Senior"}
	rec := Merge(scraper.Record{Title: "Platform Engineer", Source: "generic"}, hints, "careers.acme.io")

	assert.Equal(t, "Platform Engineer", rec.Title)
	assert.Equal(t, "Acme", rec.Company)
	assert.Equal(t, "Berlin", rec.Location)
	assert.Equal(t, "Remote", rec.JobType)
	assert.Equal(t, "Senior", rec.Experience)
	assert.Equal(t, "generic", rec.Source)
}

func TestMergeUsesKnownCompanies(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"amazon.jobs":           "Amazon",
		"flipkartcareers.com":   "Flipkart",
		"careers.google.com":    "Google",
		"jobs.apple.com":        "Apple",
		"unknown-startup.dev":   "",
		"www.metacareers.com":   "Meta",
		"careers.microsoft.com": "Microsoft",
	}
	for domain, want := range tests {
		t.Run(domain, func(t *testing.T) {
			rec := Merge(scraper.Record{}, urlutil.Hints{}, domain)
			assert.Equal(t, want, rec.Company)
		})
	}
}

func TestMergeKeepsExtractedCompany(t *testing.T) {
	t.Parallel()

	rec := Merge(scraper.Record{Company: "AWS"}, urlutil.Hints{Company: "Other"}, "amazon.jobs")
	assert.Equal(t, "AWS", rec.Company)
}

func TestCleanCapsAndDefaults(t *testing.T) {
	t.Parallel()

	rec := scraper.Record{
		Title:       "  Senior \n\t Go   Engineer  " + strings.Repeat("x", 200),
		Company:     strings.Repeat("Company ", 20),
		Location:    strings.Repeat("Ü", 60),
		Description: strings.Repeat("word ", 500),
		Skills:      []string{"Go", "go", "Rust", "Python", "Java", "C++", "SQL", "AWS", "GCP", "Docker", "Kubernetes", "Redis", "x"},
	}
	cleaned := Clean(rec, "https://example.com/jobs/1")

	assert.LessOrEqual(t, utf8.RuneCountInString(cleaned.Title), MaxTitleLen)
	assert.LessOrEqual(t, utf8.RuneCountInString(cleaned.Company), MaxCompanyLen)
	assert.LessOrEqual(t, utf8.RuneCountInString(cleaned.Location), MaxLocationLen)
	assert.LessOrEqual(t, utf8.RuneCountInString(cleaned.Description), MaxDescriptionLen)
	assert.True(t, strings.HasPrefix(cleaned.Title, "Senior Go Engineer x"))
	assert.True(t, strings.HasSuffix(cleaned.Title, "..."))
	assert.True(t, strings.HasSuffix(cleaned.Location, "..."))

	assert.Len(t, cleaned.Skills, MaxCleanSkills)
	assert.Equal(t, []string{"Go", "Rust", "Python", "Java", "C++", "SQL", "AWS", "GCP", "Docker", "Kubernetes"}, cleaned.Skills)

	assert.Equal(t, DefaultJobType, cleaned.JobType)
	assert.Equal(t, DefaultExperience, cleaned.Experience)
	assert.Equal(t, "https://example.com/jobs/1", cleaned.ApplyLink)
}

func TestCleanKeepsShortValues(t *testing.T) {
	t.Parallel()

	rec := scraper.Record{
		Title:       "Data Engineer",
		Description: "Line one.\n\n\n\n   Line   two.",
		JobType:     "Contract",
		Experience:  "Senior",
		ApplyLink:   "https://acme.io/apply",
	}
	cleaned := Clean(rec, "https://acme.io/jobs/9")

	assert.Equal(t, "Data Engineer", cleaned.Title)
	assert.Equal(t, "Line one.\n\nLine two.", cleaned.Description)
	assert.Equal(t, "Contract", cleaned.JobType)
	assert.Equal(t, "Senior", cleaned.Experience)
	assert.Equal(t, "https://acme.io/apply", cleaned.ApplyLink)
	assert.Empty(t, cleaned.Skills)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "a...", truncate("abcdef", 4))
	assert.Equal(t, "日本...", truncate("日本語テキスト", 5))
}

func TestQualityWeights(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Quality(scraper.Record{}))
	assert.Equal(t, 20, Quality(scraper.Record{Title: "Engineer"}))
	assert.Equal(t, 0, Quality(scraper.Record{Description: strings.Repeat("a", 200)}))
	assert.Equal(t, 25, Quality(scraper.Record{Description: strings.Repeat("a", 201)}))
	assert.Equal(t, 100, Quality(fullRecord()))
}

func TestQualityMonotonic(t *testing.T) {
	t.Parallel()

	full := fullRecord()
	steps := []func(*scraper.Record){
		func(r *scraper.Record) { r.Title = full.Title },
		func(r *scraper.Record) { r.Company = full.Company },
		func(r *scraper.Record) { r.Location = full.Location },
		func(r *scraper.Record) { r.Description = full.Description },
		func(r *scraper.Record) { r.Skills = full.Skills },
		func(r *scraper.Record) { r.Salary = full.Salary },
	}

	// Every order of adding a single missing field must not lower the score.
	for i := range steps {
		rec := scraper.Record{}
		prev := Quality(rec)
		for j := range steps {
			steps[(i+j)%len(steps)](&rec)
			score := Quality(rec)
			assert.GreaterOrEqual(t, score, prev)
			assert.LessOrEqual(t, score, 100)
			prev = score
		}
		assert.Equal(t, 100, prev)
	}
}

func fullRecord() scraper.Record {
	return scraper.Record{
		Title:       "Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Description: strings.Repeat("Build reliable systems. ", 20),
		Skills:      []string{"Go"},
		Salary:      "$100k",
	}
}
