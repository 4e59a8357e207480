package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dollar range", "Pay: $120k - $150k per year, plus equity", "$120k - $150k per year"},
		{"rupee range", "CTC ₹10,00,000 - ₹15,00,000 per annum", "₹10,00,000 - ₹15,00,000 per annum"},
		{"lpa", "Offering 12-18 LPA for the right candidate", "12-18 LPA"},
		{"currency code", "Base salary USD 100,000 with bonus", "USD 100,000"},
		{"euro", "€50.000 a year", "€50.000 a year"},
		{"none", "No numbers here", ""},
		{"label without amount", "Salary: competitive", ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractSalary(tc.in))
		})
	}
}
