package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvancedFiltersByShape(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("You will design data pipelines and ship models to production. ", 5)
	page := `<html><body>
<div class="page-title">Jobs</div>
<div class="posting-title-wrapper"><span>Staff Data Scientist</span></div>
<span class="company">Umbrella</span>
<span class="location">Remote</span>
<div class="short-description">Too short</div>
<section class="description"><p>` + long + `</p></section>
</body></html>`

	rec, ok := AdvancedExtractor{}.Extract(mustDoc(t, page), nil)
	require.True(t, ok)
	assert.Equal(t, "Staff Data Scientist", rec.Title)
	assert.Equal(t, "Umbrella", rec.Company)
	assert.Equal(t, "Remote", rec.Location)
	assert.Greater(t, len(rec.Description), minDescriptionLen)
	assert.Equal(t, SourceAdvancedGeneric, rec.Source)
}

func TestPlausibleTitle(t *testing.T) {
	t.Parallel()

	assert.False(t, plausibleTitle("Jobs"))
	assert.False(t, plausibleTitle("Apply Now"))
	assert.False(t, plausibleTitle(strings.Repeat("x", 101)))
	assert.True(t, plausibleTitle("Site Reliability Engineer"))
}
