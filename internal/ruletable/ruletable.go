// Package ruletable evaluates ordered first-match-wins extraction rules.
package ruletable

import (
	"regexp"
	"strings"
)

// Rule extracts a value from an input string. Apply reports false when the rule does not match
// or matched an empty value.
type Rule struct {
	Name  string
	Apply func(input string) (string, bool)
}

// Table is an ordered list of rules.
type Table []Rule

// First returns the value and rule name of the first rule that yields a non-empty value.
func (t Table) First(input string) (string, string, bool) {
	for _, r := range t {
		if r.Apply == nil {
			continue
		}
		if v, ok := r.Apply(input); ok && v != "" {
			return v, r.Name, true
		}
	}
	return "", "", false
}

// Value is First without the rule name.
func (t Table) Value(input string) string {
	v, _, _ := t.First(input)
	return v
}

// Regex builds a rule that returns the first capture group of pattern, passed through clean when
// clean is non-nil. Patterns without a capture group yield the whole match.
func Regex(name, pattern string, clean func(string) string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Name: name,
		Apply: func(input string) (string, bool) {
			m := re.FindStringSubmatch(input)
			if m == nil {
				return "", false
			}
			v := m[0]
			if len(m) > 1 {
				v = m[1]
			}
			if clean != nil {
				v = clean(v)
			}
			v = strings.TrimSpace(v)
			return v, v != ""
		},
	}
}

// Contains builds a rule that yields value when the lowercased input contains any needle.
func Contains(name string, needles []string, value string) Rule {
	lowered := make([]string, len(needles))
	for i, n := range needles {
		lowered[i] = strings.ToLower(n)
	}
	return Rule{
		Name: name,
		Apply: func(input string) (string, bool) {
			lower := strings.ToLower(input)
			for _, n := range lowered {
				if strings.Contains(lower, n) {
					return value, true
				}
			}
			return "", false
		},
	}
}

// Pattern is a named regular expression whose first capture group is collected by All.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// Patterns is an ordered list of patterns evaluated for every match.
type Patterns []Pattern

// MustPatterns compiles name/pattern pairs in order.
func MustPatterns(pairs ...[2]string) Patterns {
	out := make(Patterns, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Pattern{Name: p[0], Re: regexp.MustCompile(p[1])})
	}
	return out
}

// All returns every first-group capture of every pattern, in pattern order then match order.
func (p Patterns) All(input string) []string {
	var out []string
	for _, pat := range p {
		for _, m := range pat.Re.FindAllStringSubmatch(input, -1) {
			v := m[0]
			if len(m) > 1 {
				v = m[1]
			}
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
