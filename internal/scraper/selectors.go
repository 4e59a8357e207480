package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// candidate is one selector tried for a field. Attr reads an attribute instead of the text;
// Block keeps paragraph breaks, for long descriptions.
type candidate struct {
	Selector string
	Attr     string
	Block    bool
}

// ladder is an ordered candidate list. The first candidate whose element yields non-empty
// trimmed text, and passes accept when set, wins.
type ladder []candidate

func css(selectors ...string) ladder {
	out := make(ladder, len(selectors))
	for i, s := range selectors {
		out[i] = candidate{Selector: s}
	}
	return out
}

func blocks(selectors ...string) ladder {
	out := css(selectors...)
	for i := range out {
		out[i].Block = true
	}
	return out
}

func attr(selector, name string) candidate {
	return candidate{Selector: selector, Attr: name}
}

func (l ladder) first(doc *goquery.Document) string {
	return l.firstAccepted(doc, nil)
}

func (l ladder) firstAccepted(doc *goquery.Document, accept func(string) bool) string {
	if doc == nil {
		return ""
	}
	for _, c := range l {
		var found string
		doc.Find(c.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v := c.value(s)
			if v == "" || (accept != nil && !accept(v)) {
				return true
			}
			found = v
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// all returns the trimmed texts of every element matched by the first productive candidate.
func (l ladder) all(doc *goquery.Document) []string {
	if doc == nil {
		return nil
	}
	for _, c := range l {
		var out []string
		doc.Find(c.Selector).Each(func(_ int, s *goquery.Selection) {
			if v := c.value(s); v != "" {
				out = append(out, v)
			}
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func (c candidate) value(s *goquery.Selection) string {
	if c.Attr != "" {
		v, _ := s.Attr(c.Attr)
		return strings.TrimSpace(v)
	}
	if c.Block {
		inner, err := s.Html()
		if err == nil {
			return HTMLToText(inner)
		}
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}
