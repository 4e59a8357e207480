package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

func TestAmazonFromURL(t *testing.T) {
	t.Parallel()

	fb, ok := DefaultRegistry().Fallback(urlutil.SiteAmazon)
	require.True(t, ok)

	rec := fb.FromURL(mustURL(t, "https://www.amazon.jobs/en/jobs/12345-software-development-engineer"))
	assert.Equal(t, "Software Development Engineer", rec.Title)
	assert.Equal(t, "Amazon", rec.Company)
	assert.Equal(t, "Seattle, WA", rec.Location)
	assert.NotEmpty(t, rec.Description)
	assert.Equal(t, "amazon-url-fallback", rec.Source)
}

func TestFlipkartFromURLInfersInternship(t *testing.T) {
	t.Parallel()

	fb, ok := DefaultRegistry().Fallback(urlutil.SiteFlipkart)
	require.True(t, ok)

	rec := fb.FromURL(mustURL(t, "https://www.flipkartcareers.com/jobs/software-engineer-intern-hyderabad"))
	assert.Equal(t, "Flipkart", rec.Company)
	assert.Equal(t, "Hyderabad, India", rec.Location)
	assert.Equal(t, "Internship", rec.JobType)
	assert.Equal(t, "Entry", rec.Experience)
}

func TestFromURLExperience(t *testing.T) {
	t.Parallel()

	fb, ok := DefaultRegistry().Fallback(urlutil.SiteAmazon)
	require.True(t, ok)

	tests := map[string]string{
		"https://www.amazon.jobs/en/jobs/1-senior-software-engineer":          "Senior",
		"https://www.amazon.jobs/en/jobs/2-junior-analyst-bangalore":          "Entry",
		"https://www.amazon.jobs/en/jobs/3-international-program-manager":     "",
		"https://www.amazon.jobs/en/jobs/4-principal-engineer-london-office":  "Senior",
	}
	for raw, want := range tests {
		assert.Equal(t, want, fb.FromURL(mustURL(t, raw)).Experience, raw)
	}
}

func TestCompanyExtractorNeverFails(t *testing.T) {
	t.Parallel()

	ext := NewAmazonExtractor()
	u := mustURL(t, "https://www.amazon.jobs/en/jobs/12345-software-development-engineer")

	rec, ok := ext.Extract(mustDoc(t, "<html><body></body></html>"), u)
	require.True(t, ok)
	assert.Equal(t, "Software Development Engineer", rec.Title)

	rec, ok = ext.Extract(nil, nil)
	require.True(t, ok)
	assert.Equal(t, "Amazon", rec.Company)
	assert.NotEmpty(t, rec.Title)
}

func TestCompanyExtractorPrefersPage(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1 class="title">Applied Scientist II</h1>
<div id="job-detail-body"><div class="section"><p>Work with PyTorch.</p></div></div></body></html>`
	rec, ok := NewAmazonExtractor().Extract(mustDoc(t, page), mustURL(t, "https://www.amazon.jobs/en/jobs/999-applied-scientist"))
	require.True(t, ok)
	assert.Equal(t, "Applied Scientist II", rec.Title)
	assert.Equal(t, "Amazon", rec.Company)
	assert.Equal(t, "amazon", rec.Source)
	assert.Contains(t, rec.Skills, "PyTorch")
}
