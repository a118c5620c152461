package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NormalizeXHTML reparses an HTML body fragment and re-renders it with
// balanced, properly nested tags. EPUB content documents must be
// XML-parseable, while OCR markdown can carry ragged inline HTML that
// goldmark passes through as-is.
func NormalizeXHTML(fragment string) (string, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
