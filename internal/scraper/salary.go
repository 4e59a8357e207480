package scraper

import (
	"strings"

	"github.com/baxromumarov/job-extractor/internal/ruletable"
)

const (
	amount   = `\d{1,3}(?:[,.]\d{2,3})*(?:\.\d+)?\s*[kKmM]?`
	currency = `(?:[$€£₹¥]|USD|EUR|GBP|INR|CAD|AUD|Rs\.?)`
	period   = `(?:\s*(?:/|per)\s*(?:year|yr|annum|month|mo|hour|hr)|\s*(?:a|an)\s+(?:year|hour)|\s*(?:LPA|lpa|p\.a\.|PA))?`
)

// Ranges come before single amounts so "$120k - $150k" is kept whole.
var salaryRules = ruletable.Table{
	ruletable.Regex("currency_range", `(`+currency+`\s?`+amount+`\s*(?:-|–|to)\s*`+currency+`?\s?`+amount+period+`)`, tidySalary),
	ruletable.Regex("lpa_range", `(?i)(\d{1,2}(?:\.\d)?\s*(?:-|–|to)\s*\d{1,2}(?:\.\d)?\s*(?:LPA|lakhs?(?:\s+per\s+annum)?))`, tidySalary),
	ruletable.Regex("currency_amount", `(`+currency+`\s?`+amount+period+`)`, tidySalary),
	ruletable.Regex("labelled", `(?i)(?:salary|compensation|pay(?:\s+range)?|ctc)\s*[:\-]\s*([^\n.;]{3,60})`, tidySalary),
}

// ExtractSalary returns the first salary expression found in text, or "".
func ExtractSalary(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	v := salaryRules.Value(text)
	if !hasDigit(v) {
		return ""
	}
	return v
}

func tidySalary(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
