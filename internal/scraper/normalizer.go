package scraper

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type SimpleNormalizer struct{}

func NewSimpleNormalizer() *SimpleNormalizer {
	return &SimpleNormalizer{}
}

// Normalize flattens htmlContent into a single line of text.
func (n *SimpleNormalizer) Normalize(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(ExtractText(doc)), " "), nil
}

// ExtractText concatenates the text nodes under n, skipping scripts and styles.
func ExtractText(n *html.Node) string {
	var sb strings.Builder
	writeText(&sb, n, false)
	return sb.String()
}

// HTMLToText converts an HTML fragment to text, keeping one line per block element.
// Plain text input comes back with its whitespace tidied.
func HTMLToText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return tidyLines(html.UnescapeString(fragment))
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return tidyLines(fragment)
	}
	var sb strings.Builder
	for _, n := range nodes {
		writeText(&sb, n, true)
	}
	return tidyLines(sb.String())
}

func writeText(sb *strings.Builder, n *html.Node, blocks bool) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Br:
			if blocks {
				sb.WriteByte('\n')
			}
			return
		}
	}
	block := blocks && n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block {
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c, blocks)
	}
	if block {
		sb.WriteByte('\n')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.H1, atom.H2, atom.H3, atom.H4,
		atom.H5, atom.H6, atom.Section, atom.Article, atom.Tr, atom.Table, atom.Blockquote,
		atom.Pre, atom.Header, atom.Footer, atom.Dd, atom.Dt:
		return true
	}
	return false
}

func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
