package avida

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SkippedTags contains HTML tags whose content never appears in a card
// snippet.
var SkippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"head":     true,
}

// DefaultSnippetLength is the rune budget used by card rendering.
const DefaultSnippetLength = 160

// Snippet converts a listing's HTML description into a plain-text excerpt
// for feed cards: tags are stripped, whitespace collapsed, and the text is
// truncated on a rune boundary with an ellipsis. Elements marked with a
// data-card-hidden attribute (seller boilerplate blocks) are skipped.
// maxRunes <= 0 applies DefaultSnippetLength.
func Snippet(descriptionHTML string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultSnippetLength
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(descriptionHTML))
	if err != nil {
		// Malformed enough that even the tolerant parser gave up: fall back
		// to the raw text, still collapsed and truncated.
		return truncate(collapseWhitespace(descriptionHTML), maxRunes)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if SkippedTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-card-hidden" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range doc.Nodes {
		walk(root)
	}

	return truncate(collapseWhitespace(sb.String()), maxRunes)
}

// collapseWhitespace squashes all whitespace runs into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to maxRunes runes, appending an ellipsis when it cuts.
// The cut prefers the last word boundary within the budget.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	cut := string(runes[:maxRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
