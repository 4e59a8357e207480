package urlutil

import "strings"

// Site is the symbolic identifier of a known job board.
type Site string

const (
	SiteLinkedIn      Site = "linkedin"
	SiteIndeed        Site = "indeed"
	SiteGlassdoor     Site = "glassdoor"
	SiteMonster       Site = "monster"
	SiteZipRecruiter  Site = "ziprecruiter"
	SiteDice          Site = "dice"
	SiteStackOverflow Site = "stackoverflow"
	SiteGitHub        Site = "github"
	SiteAmazon        Site = "amazon"
	SiteFlipkart      Site = "flipkart"
	SiteGeneric       Site = "generic"
)

// Checked in order; the first needle contained in the domain wins.
var siteHosts = []struct {
	needle string
	site   Site
}{
	{"linkedin.", SiteLinkedIn},
	{"indeed.", SiteIndeed},
	{"glassdoor.", SiteGlassdoor},
	{"monster.", SiteMonster},
	{"ziprecruiter.", SiteZipRecruiter},
	{"dice.com", SiteDice},
	{"stackoverflow.", SiteStackOverflow},
	{"github.", SiteGitHub},
	{"amazon.", SiteAmazon},
	{"flipkart", SiteFlipkart},
}

// DetectSite classifies a domain. Unknown domains are SiteGeneric.
func DetectSite(domain string) Site {
	d := normalizeHost(strings.TrimSpace(domain))
	if d == "" {
		return SiteGeneric
	}
	for _, sh := range siteHosts {
		if strings.Contains(d, sh.needle) {
			return sh.site
		}
	}
	return SiteGeneric
}

// DetectJobSite classifies a raw URL. Unparsable URLs are SiteGeneric.
func DetectJobSite(raw string) Site {
	u, err := Parse(raw)
	if err != nil {
		return SiteGeneric
	}
	return DetectSite(u.Hostname())
}

// Sites lists every known, non-generic site in detection order.
func Sites() []Site {
	out := make([]Site, 0, len(siteHosts))
	for _, sh := range siteHosts {
		out = append(out, sh.site)
	}
	return out
}
