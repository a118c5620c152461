package pipeline

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Math placeholders are delimited by Unicode Private Use Area characters.
// These are guaranteed to not conflict with document content and pass
// through Goldmark unchanged, so a protected expression can never be
// corrupted by markdown rendering.
const (
	mathTokenStart = "" // U+E000: Private Use Area start
	mathTokenEnd   = "" // U+E001: Private Use Area end
)

// ErrPlaceholderLeak indicates a math placeholder survived restoration.
// A leftover token means the token scheme collided with document
// content or the renderer altered a token; either way the output would
// ship corrupted, so this is fatal.
var ErrPlaceholderLeak = errors.New("unresolved math placeholder in rendered output")

// MathRenderer renders a raw math expression to scalable vector markup.
// display selects block layout over inline layout.
type MathRenderer interface {
	Render(expression string, display bool) (string, error)
}

// MathBlock records one protected expression for later restoration.
// Instances live only for the duration of a single render.
type MathBlock struct {
	token      string
	expression string
	display    bool
}

// MathDetector decides which dollar-delimited spans are treated as
// math. The inline heuristic is pattern-based and deliberately
// explicit: the opening $ must follow start-of-line, whitespace, or an
// opening parenthesis, and the expression must start and end with a
// non-space character. Currency amounts like "$5" have no closing
// delimiter bounded that way and are left alone.
type MathDetector struct {
	display *regexp.Regexp
	inline  *regexp.Regexp
}

// NewMathDetector returns the default detection policy.
func NewMathDetector() *MathDetector {
	return &MathDetector{
		// $$...$$, may span multiple lines
		display: regexp.MustCompile(`(?s)\$\$(.+?)\$\$`),
		// $...$ on one line, anchored and trimmed against currency
		inline: regexp.MustCompile(`(?m)(^|[\s(])\$(\S(?:[^$\n]*?\S)?)\$`),
	}
}

// IsInlineCandidate reports whether text contains at least one span the
// inline policy would classify as math. Exposed so the heuristic can be
// exercised independently of protection.
func (d *MathDetector) IsInlineCandidate(text string) bool {
	return d.inline.MatchString(text)
}

// MathProtector shields math expressions from the markdown renderer and
// substitutes the rendered markup afterwards.
type MathProtector struct {
	detector *MathDetector
	renderer MathRenderer // nil means no engine: fall back to raw source
}

// NewMathProtector creates a protector with the default detection
// policy. renderer may be nil.
func NewMathProtector(renderer MathRenderer) *MathProtector {
	return &MathProtector{
		detector: NewMathDetector(),
		renderer: renderer,
	}
}

// Protect replaces display math first, then inline math, with unique
// counter-suffixed tokens. The returned blocks carry everything Restore
// needs; the returned text is safe to hand to the markdown renderer.
func (p *MathProtector) Protect(markdown string) (string, []MathBlock) {
	var blocks []MathBlock
	counter := 0

	token := func() string {
		t := fmt.Sprintf("%smath%d%s", mathTokenStart, counter, mathTokenEnd)
		counter++
		return t
	}

	markdown = p.detector.display.ReplaceAllStringFunc(markdown, func(match string) string {
		expr := strings.TrimSuffix(strings.TrimPrefix(match, "$$"), "$$")
		t := token()
		blocks = append(blocks, MathBlock{token: t, expression: expr, display: true})
		return t
	})

	markdown = p.detector.inline.ReplaceAllStringFunc(markdown, func(match string) string {
		sub := p.detector.inline.FindStringSubmatch(match)
		lead, expr := sub[1], sub[2]
		t := token()
		blocks = append(blocks, MathBlock{token: t, expression: expr, display: false})
		return lead + t
	})

	return markdown, blocks
}

// Restore replaces every placeholder token in rendered HTML with its
// final markup and asserts none remain.
func (p *MathProtector) Restore(htmlContent string, blocks []MathBlock) (string, error) {
	for _, b := range blocks {
		htmlContent = strings.ReplaceAll(htmlContent, b.token, p.renderBlock(b))
	}
	if strings.Contains(htmlContent, mathTokenStart) || strings.Contains(htmlContent, mathTokenEnd) {
		return "", ErrPlaceholderLeak
	}
	return htmlContent, nil
}

// renderBlock produces the final markup for one expression. The raw
// expression is HTML-entity-decoded first since OCR markdown may
// already be entity-escaped. On engine failure or absence the original
// dollar-delimited source is substituted verbatim: the document
// degrades to plain math source rather than losing content.
func (p *MathProtector) renderBlock(b MathBlock) string {
	expr := html.UnescapeString(b.expression)

	if p.renderer != nil {
		if markup, err := p.renderer.Render(expr, b.display); err == nil {
			return wrapMath(markup, b.display)
		}
	}
	return wrapMath(mathFallback(expr, b.display), b.display)
}

// wrapMath wraps rendered markup in a block- or inline-level container.
func wrapMath(markup string, display bool) string {
	if display {
		return `<div class="math-display">` + markup + `</div>`
	}
	return `<span class="math-inline">` + markup + `</span>`
}

// mathFallback re-wraps the raw source in its original delimiters,
// escaped for HTML safety.
func mathFallback(expr string, display bool) string {
	if display {
		return html.EscapeString("$$" + expr + "$$")
	}
	return html.EscapeString("$" + expr + "$")
}
