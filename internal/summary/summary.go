// Package summary turns article markup into a short plain-text summary.
package summary

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultRatio is the share of period-delimited segments kept by Summarize.
const DefaultRatio = 0.3

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "blockquote": true, "section": true,
	"article": true, "header": true, "footer": true, "pre": true, "hr": true,
	"dl": true, "dt": true, "dd": true,
}

// cellTags stay on the row's line but are padded so neighbours do not merge.
var cellTags = map[string]bool{"td": true, "th": true}

var skipTags = map[string]bool{
	"script": true, "style": true, "img": true, "head": true,
	"noscript": true, "iframe": true, "svg": true,
}

// HTMLToText renders markup as plain text. Link targets and images are
// dropped, link text is kept. Block elements become paragraphs separated by
// a blank line, table cells of a row are separated by a space and
// whitespace inside a paragraph collapses to one space.
func HTMLToText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	w := &textWriter{}
	for _, n := range doc.Nodes {
		w.walk(n)
	}
	w.flush()
	return strings.Join(w.paragraphs, "\n\n")
}

type textWriter struct {
	paragraphs []string
	current    strings.Builder
}

func (w *textWriter) flush() {
	p := strings.Join(strings.Fields(w.current.String()), " ")
	if p != "" {
		w.paragraphs = append(w.paragraphs, p)
	}
	w.current.Reset()
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.current.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if blockTags[n.Data] {
			w.flush()
			if n.Data == "li" {
				w.current.WriteString("* ")
			}
			defer w.flush()
		}
		if cellTags[n.Data] {
			w.current.WriteString(" ")
			defer w.current.WriteString(" ")
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// Summarize splits text on every "." and keeps the first
// max(1, ceil(segments*ratio)) segments, rejoined with "." plus one
// appended ".". Abbreviations and decimals count as boundaries.
func Summarize(text string, ratio float64) string {
	segments := strings.Split(text, ".")
	return strings.Join(segments[:keepCount(len(segments), ratio)], ".") + "."
}

func keepCount(segments int, ratio float64) int {
	// the epsilon absorbs float error such as 100*0.3 = 30.000000000000004
	keep := int(math.Ceil(float64(segments)*ratio - 1e-9))
	if keep < 1 {
		keep = 1
	}
	if keep > segments {
		keep = segments
	}
	return keep
}
