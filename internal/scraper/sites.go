package scraper

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/job-extractor/internal/skills"
	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

// siteProfile holds the selector ladders for one job board. A non-empty company pins the
// employer for single-company career sites.
type siteProfile struct {
	site        urlutil.Site
	company     string
	title       ladder
	companySel  ladder
	location    ladder
	description ladder
	salary      ladder
	jobType     ladder
	experience  ladder
	tags        ladder
}

type selectorExtractor struct {
	profile siteProfile
}

func newSelectorExtractor(p siteProfile) *selectorExtractor {
	return &selectorExtractor{profile: p}
}

func (e *selectorExtractor) Site() urlutil.Site {
	return e.profile.site
}

func (e *selectorExtractor) Extract(doc *goquery.Document, pageURL *url.URL) (Record, bool) {
	p := e.profile
	rec := Record{
		Title:       p.title.first(doc),
		Company:     p.company,
		Location:    p.location.first(doc),
		Description: p.description.first(doc),
		Salary:      p.salary.first(doc),
		JobType:     p.jobType.first(doc),
		Experience:  p.experience.first(doc),
		Source:      string(p.site),
	}
	if rec.Company == "" {
		rec.Company = p.companySel.first(doc)
	}
	if pageURL != nil {
		rec.ApplyLink = pageURL.String()
	}
	if rec.Salary == "" {
		rec.Salary = ExtractSalary(rec.Description)
	}
	if tags := p.tags.all(doc); len(tags) > 0 {
		rec.Skills = skills.Merge(tags)
	} else {
		rec.Skills = skills.Extract(rec.Description)
	}
	return rec, rec.Title != ""
}

var linkedInProfile = siteProfile{
	site: urlutil.SiteLinkedIn,
	title: css(
		".top-card-layout__title",
		".topcard__title",
		".job-details-jobs-unified-top-card__job-title",
		"h1.t-24",
		"h1",
	),
	companySel: css(
		".topcard__org-name-link",
		".top-card-layout__second-subline .topcard__flavor a",
		".job-details-jobs-unified-top-card__company-name",
		".topcard__flavor",
	),
	location: css(
		".topcard__flavor--bullet",
		".top-card-layout__second-subline .topcard__flavor--bullet",
		".job-details-jobs-unified-top-card__bullet",
	),
	description: blocks(
		".show-more-less-html__markup",
		".description__text",
		"#job-details",
		".jobs-description__content",
	),
	salary: css(".salary.compensation__salary", ".compensation__salary"),
	jobType: css(
		".description__job-criteria-item:nth-child(2) .description__job-criteria-text",
	),
	experience: css(
		".description__job-criteria-item:nth-child(1) .description__job-criteria-text",
	),
}

var indeedProfile = siteProfile{
	site: urlutil.SiteIndeed,
	title: css(
		"[data-testid='jobsearch-JobInfoHeader-title']",
		"h1.jobsearch-JobInfoHeader-title",
		".jobsearch-JobInfoHeader-title-container h1",
		"h1",
	),
	companySel: css(
		"[data-testid='inlineHeader-companyName']",
		"[data-company-name='true']",
		".jobsearch-InlineCompanyRating div:first-child",
		".jobsearch-CompanyInfoContainer a",
	),
	location: css(
		"[data-testid='inlineHeader-companyLocation']",
		"[data-testid='job-location']",
		".jobsearch-JobInfoHeader-subtitle > div:last-child",
	),
	description: blocks("#jobDescriptionText", ".jobsearch-jobDescriptionText"),
	salary: css(
		"#salaryInfoAndJobType span:first-child",
		"[data-testid='jobsearch-OtherJobDetailsContainer'] [aria-label='Pay']",
	),
	jobType: css("#salaryInfoAndJobType span:last-child"),
}

var glassdoorProfile = siteProfile{
	site: urlutil.SiteGlassdoor,
	title: css(
		"[data-test='job-title']",
		"[data-test='jobTitle']",
		".css-1vg6q84",
		"h1",
	),
	companySel: css(
		"[data-test='employer-name']",
		"[data-test='employerName']",
		".employerName",
	),
	location: css("[data-test='location']", "[data-test='emp-location']", ".location"),
	description: blocks(
		".jobDescriptionContent",
		"[class*='JobDetails_jobDescription']",
		"#JobDescriptionContainer",
	),
	salary: css("[data-test='detailSalary']", "[data-test='salaryEstimate']"),
}

var monsterProfile = siteProfile{
	site: urlutil.SiteMonster,
	title: css(
		"h1[data-testid='jobTitle']",
		".JobViewTitle",
		".job_title",
		"h1",
	),
	companySel: css("[data-testid='company']", ".headerstyle__JobViewHeaderCompany", ".company"),
	location:   css("[data-testid='jobDetailLocation']", ".headerstyle__JobViewHeaderLocation", ".location"),
	description: blocks(
		"[data-testid='svx-description-container-inner']",
		"#JobDescription",
		".job-description",
	),
	salary:  css("[data-testid='svx-jobview-salary']", ".salary"),
	jobType: css("[data-testid='svx-jobview-employmenttype']"),
}

var zipRecruiterProfile = siteProfile{
	site: urlutil.SiteZipRecruiter,
	title: css(
		"h1.job_title",
		".job_header h1",
		"[data-testid='job-title']",
		"h1",
	),
	companySel: css(".hiring_company_text", "a.hiring_company", "[data-testid='job-company']"),
	location:   css(".location_text", ".hiring_location", "[data-testid='job-location']"),
	description: blocks(
		".jobDescriptionSection",
		".job_description",
		"[data-testid='job-description']",
	),
	salary:  css(".salary_range", ".compensation", "[data-testid='job-salary']"),
	jobType: css(".employment_type", "[data-testid='job-employment-type']"),
}

var diceProfile = siteProfile{
	site: urlutil.SiteDice,
	title: css(
		"h1[data-cy='jobTitle']",
		"[data-testid='jobTitle']",
		"h1",
	),
	companySel: css(
		"a[data-cy='companyNameLink']",
		"[data-cy='companyNameLink']",
		"[data-testid='companyName']",
	),
	location: css("li[data-cy='location']", "[data-cy='location']", "[data-testid='location']"),
	description: blocks(
		"[data-testid='jobDescriptionHtml']",
		"#jobDescription",
		"[data-cy='jobDescription']",
	),
	salary:  css("[data-cy='payDetails']", "[data-testid='payDetails']"),
	jobType: css("[data-cy='employmentDetails']", "[data-testid='employmentDetails']"),
	tags:    css("[data-cy='skillsList'] span", "[data-testid='skillChip']"),
}

var stackOverflowProfile = siteProfile{
	site:       urlutil.SiteStackOverflow,
	title:      css("h1.fs-headline1 a", "h1.fs-headline1", "h1"),
	companySel: css(".fc-black-700 a", ".employer", ".job-details--header .fc-black-700"),
	location:   css(".fc-black-500", ".job-details--header .fc-black-500"),
	description: blocks(
		"#overview-items section:last-of-type",
		".job-description",
		"#overview-items",
	),
	salary: css(".-salary", ".salary"),
	tags:   css(".job-details--about .post-tag", ".post-tag", ".s-tag"),
}

var gitHubProfile = siteProfile{
	site:       urlutil.SiteGitHub,
	title:      css(".job-title", "h1.title", "h1"),
	companySel: css(".company-name", "[itemprop='hiringOrganization']", ".supertitle a"),
	location:   css(".location", ".supertitle .location", "[itemprop='jobLocation']"),
	description: blocks(
		".job-description",
		"#job-description",
		".column.main",
		".markdown-body",
	),
	jobType: css(".supertitle .job-type"),
}

var amazonProfile = siteProfile{
	site:    urlutil.SiteAmazon,
	company: "Amazon",
	title:   css("h1.title", ".job-detail-title h1", "#job-detail .title", "h1"),
	location: css(
		".association-content .location",
		".details-line .location-icon + li",
		"ul.association-content li",
		".location-and-id li:first-child",
	),
	description: blocks(
		"#job-detail-body .section",
		"#job-detail-body",
		".job-detail .section",
	),
}

var flipkartProfile = siteProfile{
	site:        urlutil.SiteFlipkart,
	company:     "Flipkart",
	title:       css(".job-title", ".jobTitle", "h1"),
	location:    css(".job-location", ".jobLocation", ".location"),
	description: blocks(".job-description", "#job-description", ".jobDescription"),
	experience:  css(".job-experience", ".experience"),
}
