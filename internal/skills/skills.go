// Package skills mines free text for technology and skill terms.
package skills

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baxromumarov/job-extractor/internal/ruletable"
)

const (
	// MaxSkills bounds the output of Extract.
	MaxSkills = 15
	minLen    = 2
	maxLen    = 30
	maxWords  = 4
)

// Cue phrases whose first group holds a comma separated skill list.
var cuePatterns = ruletable.MustPatterns(
	[2]string{"experience_with", `(?i)experience (?:with|in|using) ([^;:\n]+?)(?:\.(?:\s|$)|[;:\n(]|$)`},
	[2]string{"x_experience", `([A-Z][A-Za-z0-9+#.]*(?: [A-Z][A-Za-z0-9+#.]*)?) experience`},
	[2]string{"required_list", `(?i)(?:required|requirements|must[- ]haves?|skills|tech(?:nology)? stack|technologies)\s*:\s*([^;\n]+?)(?:\.(?:\s|$)|[;\n]|$)`},
	[2]string{"proficiency", `(?i)(?:proficien(?:t|cy) (?:in|with)|knowledge of|familiarity with|expertise in) ([^;:\n]+?)(?:\.(?:\s|$)|[;:\n(]|$)`},
)

var conjunction = regexp.MustCompile(`(?i)\s+(?:and|or|&)\s+`)

// A lazy cue capture can run into a second cue, as in "Go, and experience with AWS".
var leadingCue = regexp.MustCompile(`(?i)^(?:experience|proficiency|familiarity|knowledge|expertise)\s+(?:with|in|using|of)\s+`)

var leadingFiller = map[string]struct{}{
	"and": {}, "or": {}, "&": {}, "strong": {}, "solid": {}, "proven": {}, "extensive": {},
	"deep": {}, "good": {}, "excellent": {}, "demonstrated": {}, "professional": {},
	"relevant": {}, "prior": {}, "previous": {}, "some": {}, "hands-on": {}, "working": {},
	"practical": {}, "industry": {}, "including": {}, "such": {}, "as": {}, "the": {}, "a": {},
	"an": {},
}

var rejected = map[string]struct{}{
	"etc": {}, "other": {}, "others": {}, "similar": {}, "related": {}, "modern": {},
	"tools": {}, "technologies": {}, "frameworks": {}, "languages": {}, "work": {}, "team": {},
}

// Extract returns deduplicated skills found in text: dictionary terms first, then cue-phrase
// captures. At most MaxSkills entries, each 2-30 characters.
func Extract(text string) []string {
	out := newSkillSet()
	if strings.TrimSpace(text) == "" {
		return out.items
	}

	lower := strings.ToLower(text)
	for _, term := range Vocabulary {
		if out.full() {
			return out.items
		}
		if containsTerm(text, lower, term) {
			out.add(term.Name)
		}
	}

	for _, capture := range cuePatterns.All(text) {
		for _, item := range splitItems(capture) {
			if out.full() {
				return out.items
			}
			out.add(item)
		}
	}
	return out.items
}

// Merge unions lists in order with the same dedupe and bounds as Extract.
func Merge(lists ...[]string) []string {
	out := newSkillSet()
	for _, list := range lists {
		for _, s := range list {
			if out.full() {
				return out.items
			}
			out.add(strings.TrimSpace(s))
		}
	}
	return out.items
}

// Valid reports whether s satisfies the skill length bounds.
func Valid(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= minLen && n <= maxLen
}

type skillSet struct {
	seen  map[string]struct{}
	items []string
}

func newSkillSet() *skillSet {
	return &skillSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *skillSet) full() bool {
	return len(s.items) >= MaxSkills
}

func (s *skillSet) add(skill string) {
	if s.full() || !Valid(skill) {
		return
	}
	key := strings.ToLower(skill)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, skill)
}

func containsTerm(text, lower string, term Term) bool {
	hay, needle := lower, strings.ToLower(term.Name)
	if term.CaseSensitive {
		hay, needle = text, term.Name
	}
	for from := 0; from < len(hay); {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		if boundaryAt(hay, start-1) && boundaryAt(hay, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

func splitItems(capture string) []string {
	var out []string
	for _, part := range strings.Split(capture, ",") {
		for _, piece := range conjunction.Split(part, -1) {
			if item := cleanItem(piece); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func cleanItem(part string) string {
	item := strings.Trim(strings.TrimSpace(part), "\"'()[]{}.!?")
	words := stripFiller(strings.Fields(item))
	if joined := strings.Join(words, " "); leadingCue.MatchString(joined) {
		words = stripFiller(strings.Fields(leadingCue.ReplaceAllString(joined, "")))
	}
	if len(words) > 1 && strings.EqualFold(words[len(words)-1], "etc") {
		words = words[:len(words)-1]
	}
	if len(words) == 0 || len(words) > maxWords {
		return ""
	}
	item = strings.TrimRight(strings.Join(words, " "), ".")
	lowered := strings.ToLower(item)
	if _, ok := rejected[lowered]; ok {
		return ""
	}
	if strings.Contains(lowered, "year") || !hasLetter(item) {
		return ""
	}
	return item
}

func stripFiller(words []string) []string {
	for len(words) > 0 {
		if _, ok := leadingFiller[strings.ToLower(words[0])]; !ok {
			break
		}
		words = words[1:]
	}
	return words
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
