package core

import (
	"strings"
	"unicode/utf8"

	"github.com/baxromumarov/job-extractor/internal/scraper"
)

const (
	weightTitle       = 20
	weightCompany     = 15
	weightLocation    = 15
	weightDescription = 25
	weightSkills      = 15
	weightSalary      = 10

	// Descriptions at or below this many characters earn no credit.
	minScoredDescription = 200
)

// Quality scores the completeness of a cleaned record from 0 to 100.
func Quality(rec scraper.Record) int {
	score := 0
	if present(rec.Title) {
		score += weightTitle
	}
	if present(rec.Company) {
		score += weightCompany
	}
	if present(rec.Location) {
		score += weightLocation
	}
	if utf8.RuneCountInString(strings.TrimSpace(rec.Description)) > minScoredDescription {
		score += weightDescription
	}
	if len(rec.Skills) > 0 {
		score += weightSkills
	}
	if present(rec.Salary) {
		score += weightSalary
	}
	return min(score, 100)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
