package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/baxromumarov/job-extractor/internal/scraper"
	"github.com/baxromumarov/job-extractor/internal/skills"
)

const (
	MaxTitleLen       = 100
	MaxCompanyLen     = 50
	MaxLocationLen    = 50
	MaxDescriptionLen = 2000
	MaxSalaryLen      = 100
	MaxCleanSkills    = 10

	DefaultJobType    = "Full-time"
	DefaultExperience = "Entry"

	ellipsis = "..."
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines      = regexp.MustCompile(`\n\s*\n(\s*\n)+`)
)

// Clean normalizes whitespace, enforces the field caps and applies defaults. applyLink is
// used when the record has none.
func Clean(rec scraper.Record, applyLink string) scraper.Record {
	out := scraper.Record{
		Title:       truncate(collapse(rec.Title), MaxTitleLen),
		Company:     truncate(collapse(rec.Company), MaxCompanyLen),
		Location:    truncate(collapse(rec.Location), MaxLocationLen),
		Description: truncate(collapseText(rec.Description), MaxDescriptionLen),
		Salary:      truncate(collapse(rec.Salary), MaxSalaryLen),
		JobType:     collapse(rec.JobType),
		Experience:  collapse(rec.Experience),
		ApplyLink:   strings.TrimSpace(rec.ApplyLink),
		Source:      rec.Source,
	}

	out.Skills = skills.Merge(rec.Skills)
	if len(out.Skills) > MaxCleanSkills {
		out.Skills = out.Skills[:MaxCleanSkills]
	}

	if out.JobType == "" {
		out.JobType = DefaultJobType
	}
	if out.Experience == "" {
		out.Experience = DefaultExperience
	}
	if out.ApplyLink == "" {
		out.ApplyLink = strings.TrimSpace(applyLink)
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseText keeps paragraph breaks but squeezes runs of spaces and blank lines.
func collapseText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = horizontalSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most limit runes, ending in an ellipsis when it had to cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	cut := strings.TrimRight(string(r[:limit-utf8.RuneCountInString(ellipsis)]), " \n")
	return cut + ellipsis
}
