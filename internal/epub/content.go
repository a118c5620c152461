package epub

import (
	"context"
	"fmt"
	"strings"

	"github.com/halvar/go-ocrbundle/internal/assets"
	"github.com/halvar/go-ocrbundle/internal/pipeline"
)

// contentTemplate wraps the rendered body in an XHTML content document.
// Slots: escaped title, CSS, body.
const contentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>`

// renderContent produces OEBPS/content.xhtml: the markdown is rewritten
// to the container's resource folder, run through the shared protect →
// render → restore pipeline, normalized to well-formed XHTML, and
// wrapped in e-reader styling.
func (b *Builder) renderContent(ctx context.Context, markdown string) (string, error) {
	rewritten := pipeline.RewriteImagePaths(markdown, pipeline.DefaultResourcePrefix)

	body, err := b.renderer.RenderBody(ctx, rewritten)
	if err != nil {
		return "", fmt.Errorf("rendering content document: %w", err)
	}

	body, err = pipeline.NormalizeXHTML(body)
	if err != nil {
		return "", fmt.Errorf("normalizing content document: %w", err)
	}

	return fmt.Sprintf(contentTemplate,
		pipeline.EscapeXML(b.title),
		assets.MustLoadStyle(assets.StyleEpub),
		body), nil
}

// generateNavigation creates nav.xhtml with a single table-of-contents
// entry pointing at the content document.
func (b *Builder) generateNavigation() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
  <title>Table of Contents</title>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>Table of Contents</h1>
    <ol>
`)
	sb.WriteString(fmt.Sprintf("      <li><a href=\"content.xhtml\">%s</a></li>\n", pipeline.EscapeXML(b.title)))
	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)
	return sb.String()
}
