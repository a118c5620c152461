package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// fakeMathRenderer returns canned markup or a fixed error.
type fakeMathRenderer struct {
	markup string
	err    error
}

func (f *fakeMathRenderer) Render(expression string, display bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.markup, nil
}

func TestMathDetectorIsInlineCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"simple expression", "the value $x+y$ here", true},
		{"expression at line start", "$E=mc^2$ is famous", true},
		{"expression after parenthesis", "(see $a_i$)", true},
		{"single char expression", "let $x$ be", true},
		{"currency amount alone", "it costs $5", false},
		{"two currency amounts", "between $5 and $6 total", false},
		{"currency with decimals", "paid $5.99 then $3.50 more", false},
		{"space after opening dollar", "a $ x$ b", false},
		{"space before closing dollar", "a $x $ b", false},
		{"no dollars at all", "plain text", false},
	}

	d := NewMathDetector()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := d.IsInlineCandidate(tt.text); got != tt.want {
				t.Errorf("IsInlineCandidate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMathProtectorProtect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		markdown    string
		wantBlocks  int
		wantDisplay int
	}{
		{
			name:       "no math yields no blocks",
			markdown:   "plain text with $5 price",
			wantBlocks: 0,
		},
		{
			name:        "display math captured",
			markdown:    "$$\\sum_{i=0}^n i$$",
			wantBlocks:  1,
			wantDisplay: 1,
		},
		{
			name:        "multiline display math captured",
			markdown:    "$$\na = b\nc = d\n$$",
			wantBlocks:  1,
			wantDisplay: 1,
		},
		{
			name:       "inline math captured",
			markdown:   "value $x+y$ here",
			wantBlocks: 1,
		},
		{
			name:        "display consumed before inline",
			markdown:    "$$block$$ and $inline$",
			wantBlocks:  2,
			wantDisplay: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewMathProtector(nil)
			protected, blocks := p.Protect(tt.markdown)

			if len(blocks) != tt.wantBlocks {
				t.Fatalf("blocks = %d, want %d", len(blocks), tt.wantBlocks)
			}
			var displays int
			for _, b := range blocks {
				b := b
				if b.display {
					displays++
				}
				if !strings.Contains(protected, b.token) {
					t.Errorf("protected text missing token for %q", b.expression)
				}
			}
			if displays != tt.wantDisplay {
				t.Errorf("display blocks = %d, want %d", displays, tt.wantDisplay)
			}
			if tt.wantBlocks > 0 && strings.Contains(protected, "$$") {
				t.Error("protected text still contains display delimiters")
			}
		})
	}
}

func TestMathProtectorRoundTrip(t *testing.T) {
	t.Parallel()

	renderer := &fakeMathRenderer{markup: "<svg>rendered</svg>"}
	p := NewMathProtector(renderer)

	protected, blocks := p.Protect("Given $a+b$ and $$c+d$$ we conclude.")
	restored, err := p.Restore(protected, blocks)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if !strings.Contains(restored, `<span class="math-inline"><svg>rendered</svg></span>`) {
		t.Errorf("inline markup missing from %q", restored)
	}
	if !strings.Contains(restored, `<div class="math-display"><svg>rendered</svg></div>`) {
		t.Errorf("display markup missing from %q", restored)
	}
	if strings.Contains(restored, "math0") || strings.Contains(restored, "math1") {
		t.Errorf("placeholders leaked into %q", restored)
	}
}

func TestMathProtectorFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		renderer MathRenderer
	}{
		{"no engine configured", nil},
		{"engine fails", &fakeMathRenderer{err: errors.New("unknown command")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewMathProtector(tt.renderer)

			protected, blocks := p.Protect(`see $\badcommand{x}$ here`)
			restored, err := p.Restore(protected, blocks)
			if err != nil {
				t.Fatalf("Restore() error: %v", err)
			}

			// The raw dollar-delimited source survives, escaped.
			if !strings.Contains(restored, `$\badcommand{x}$`) {
				t.Errorf("raw source not preserved in %q", restored)
			}
			if !strings.Contains(restored, `class="math-inline"`) {
				t.Errorf("fallback not wrapped in inline container: %q", restored)
			}
		})
	}
}

func TestMathProtectorFallbackEscapesHTML(t *testing.T) {
	t.Parallel()

	p := NewMathProtector(nil)
	protected, blocks := p.Protect("compare $a<b$ now")
	restored, err := p.Restore(protected, blocks)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if !strings.Contains(restored, "$a&lt;b$") {
		t.Errorf("fallback not HTML-escaped: %q", restored)
	}
}

func TestMathProtectorRestoreDetectsLeak(t *testing.T) {
	t.Parallel()

	p := NewMathProtector(nil)
	// A token-looking span the protector never issued.
	leaked := "before " + mathTokenStart + "math99" + mathTokenEnd + " after"

	_, err := p.Restore(leaked, nil)
	if !errors.Is(err, ErrPlaceholderLeak) {
		t.Errorf("Restore() error = %v, want ErrPlaceholderLeak", err)
	}
}

func TestMathProtectorUnescapesEntities(t *testing.T) {
	t.Parallel()

	captured := ""
	renderer := &captureRenderer{captured: &captured}
	p := NewMathProtector(renderer)

	protected, blocks := p.Protect("bound $a &lt; b$ holds")
	if _, err := p.Restore(protected, blocks); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if captured != "a < b" {
		t.Errorf("engine received %q, want entity-decoded %q", captured, "a < b")
	}
}

// captureRenderer records the expression it was asked to render.
type captureRenderer struct {
	captured *string
}

func (c *captureRenderer) Render(expression string, display bool) (string, error) {
	*c.captured = expression
	return "<svg/>", nil
}
