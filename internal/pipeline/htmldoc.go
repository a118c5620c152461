package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// documentTemplate wraps a rendered body fragment in a complete HTML5
// document. Slots: escaped title, sanitized CSS, body.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>`

// DocumentRenderer runs the shared protect → render → restore pipeline:
// math expressions are shielded from the markdown renderer, the text is
// converted to HTML, and the rendered math (or its raw-source fallback)
// is substituted back. Both the standalone HTML document and the EPUB
// content document go through this same renderer so math looks
// identical in either output.
type DocumentRenderer struct {
	protector *MathProtector
	converter HTMLConverter
}

// NewDocumentRenderer creates a renderer. math may be nil, in which
// case expressions degrade to their raw dollar-delimited source.
func NewDocumentRenderer(math MathRenderer) *DocumentRenderer {
	return &DocumentRenderer{
		protector: NewMathProtector(math),
		converter: NewGoldmarkConverter(),
	}
}

// RenderBody converts markdown to an HTML body fragment with math
// protection applied around the conversion.
func (r *DocumentRenderer) RenderBody(ctx context.Context, markdown string) (string, error) {
	protected, blocks := r.protector.Protect(markdown)

	htmlContent, err := r.converter.ToHTML(ctx, protected)
	if err != nil {
		return "", err
	}

	restored, err := r.protector.Restore(htmlContent, blocks)
	if err != nil {
		return "", fmt.Errorf("restoring math markup: %w", err)
	}
	return restored, nil
}

// WrapDocument wraps a body fragment in a complete styled HTML5
// document. The title is XML-escaped; the CSS is sanitized so it cannot
// break out of its <style> block.
func WrapDocument(body, title, css string) string {
	return fmt.Sprintf(documentTemplate, EscapeXML(title), sanitizeCSS(css), body)
}

// sanitizeCSS escapes sequences that could close the <style> block
// prematurely.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
