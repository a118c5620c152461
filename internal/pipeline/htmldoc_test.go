package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestDocumentRendererRenderBody(t *testing.T) {
	t.Parallel()

	renderer := NewDocumentRenderer(nil)

	got, err := renderer.RenderBody(context.Background(), "# Title\n\nvalue $x+y$ done")
	if err != nil {
		t.Fatalf("RenderBody() error: %v", err)
	}

	if !strings.Contains(got, "<h1") {
		t.Errorf("body missing heading: %q", got)
	}
	if !strings.Contains(got, `class="math-inline"`) {
		t.Errorf("body missing math container: %q", got)
	}
	if strings.Contains(got, mathTokenStart) {
		t.Errorf("placeholder leaked into body: %q", got)
	}
}

func TestDocumentRendererMathSurvivesMarkdown(t *testing.T) {
	t.Parallel()

	// Underscores inside math would become <em> without protection.
	renderer := NewDocumentRenderer(nil)
	got, err := renderer.RenderBody(context.Background(), "sum $a_i + b_j$ here")
	if err != nil {
		t.Fatalf("RenderBody() error: %v", err)
	}
	if strings.Contains(got, "<em>") {
		t.Errorf("math expression was mangled by markdown emphasis: %q", got)
	}
	if !strings.Contains(got, "a_i + b_j") {
		t.Errorf("math source missing from %q", got)
	}
}

func TestWrapDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		title        string
		css          string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "complete document structure",
			body:         "<p>hello</p>",
			title:        "My Doc",
			css:          "body { margin: 0; }",
			wantContains: []string{"<!DOCTYPE html>", "<title>My Doc</title>", "body { margin: 0; }", "<p>hello</p>"},
		},
		{
			name:         "title escaped",
			body:         "",
			title:        `Q"A & <B>`,
			wantContains: []string{"<title>Q&quot;A &amp; &lt;B&gt;</title>"},
			wantExcludes: []string{"<title>Q\"A"},
		},
		{
			name:         "css cannot close the style block",
			body:         "",
			css:          "x { } </style><script>alert(1)</script>",
			wantExcludes: []string{"</style><script>"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WrapDocument(tt.body, tt.title, tt.css)
			for _, want := range tt.wantContains {
				want := want
				if !strings.Contains(got, want) {
					t.Errorf("WrapDocument() missing %q in %q", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				exclude := exclude
				if strings.Contains(got, exclude) {
					t.Errorf("WrapDocument() must not contain %q", exclude)
				}
			}
		})
	}
}
