package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

const linkedInPage = `<html><body>
<h1 class="top-card-layout__title">Senior Backend Engineer</h1>
<a class="topcard__org-name-link">Acme Corp</a>
<span class="topcard__flavor topcard__flavor--bullet">Austin, TX</span>
<div class="show-more-less-html__markup">
  <p>We need experience with Go, Kafka and PostgreSQL.</p>
  <p>Salary: $150k - $180k per year</p>
</div>
</body></html>`

func TestLinkedInExtractor(t *testing.T) {
	t.Parallel()

	ext, ok := DefaultRegistry().Lookup(urlutil.SiteLinkedIn)
	require.True(t, ok)

	rec, ok := ext.Extract(mustDoc(t, linkedInPage), mustURL(t, "https://www.linkedin.com/jobs/view/123"))
	require.True(t, ok)
	assert.Equal(t, "Senior Backend Engineer", rec.Title)
	assert.Equal(t, "Acme Corp", rec.Company)
	assert.Equal(t, "Austin, TX", rec.Location)
	assert.Equal(t, "We need experience with Go, Kafka and PostgreSQL.\nSalary: $150k - $180k per year", rec.Description)
	assert.Equal(t, "$150k - $180k per year", rec.Salary)
	assert.Equal(t, "linkedin", rec.Source)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/123", rec.ApplyLink)
	assert.Contains(t, rec.Skills, "Go")
	assert.Contains(t, rec.Skills, "Kafka")
	assert.Contains(t, rec.Skills, "PostgreSQL")
}

func TestDiceUsesExplicitTags(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<h1 data-cy="jobTitle">Data Engineer</h1>
<a data-cy="companyNameLink">Initech</a>
<div data-cy="skillsList"><span>Python</span><span>Spark</span><span>python</span></div>
<div data-testid="jobDescriptionHtml"><p>Java shop.</p></div>
</body></html>`

	ext, ok := DefaultRegistry().Lookup(urlutil.SiteDice)
	require.True(t, ok)

	rec, ok := ext.Extract(mustDoc(t, page), nil)
	require.True(t, ok)
	assert.Equal(t, "Data Engineer", rec.Title)
	assert.Equal(t, "Initech", rec.Company)
	assert.Equal(t, []string{"Python", "Spark"}, rec.Skills)
}

func TestSiteExtractorMissingTitle(t *testing.T) {
	t.Parallel()

	ext, ok := DefaultRegistry().Lookup(urlutil.SiteIndeed)
	require.True(t, ok)

	rec, ok := ext.Extract(mustDoc(t, `<html><body><div id="jobDescriptionText">text</div></body></html>`), nil)
	assert.False(t, ok)
	assert.Equal(t, "text", rec.Description)
	assert.Empty(t, rec.Title)
}
