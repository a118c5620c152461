package epub

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halvar/go-ocrbundle/internal/pipeline"
)

// manifestIDPattern strips everything an XML id cannot carry.
var manifestIDPattern = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// generatePackage creates the content.opf package document: metadata,
// a manifest item per static document plus one per registry image, and
// a spine referencing the content document.
func (b *Builder) generatePackage(images pipeline.ImageRegistry) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)
	sb.WriteString(fmt.Sprintf("    <dc:identifier id=\"pub-id\">urn:uuid:%s</dc:identifier>\n", uuid.New().String()))
	sb.WriteString(fmt.Sprintf("    <dc:title>%s</dc:title>\n", pipeline.EscapeXML(b.title)))
	sb.WriteString(fmt.Sprintf("    <dc:language>%s</dc:language>\n", pipeline.EscapeXML(b.language)))
	sb.WriteString(fmt.Sprintf("    <dc:creator>%s</dc:creator>\n", pipeline.EscapeXML(b.creator)))
	sb.WriteString(fmt.Sprintf("    <meta property=\"dcterms:modified\">%s</meta>\n",
		time.Now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")))
	sb.WriteString("  </metadata>\n")

	sb.WriteString("  <manifest>\n")
	sb.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	sb.WriteString("    <item id=\"content\" href=\"content.xhtml\" media-type=\"application/xhtml+xml\"/>\n")
	for _, id := range images.SortedIDs() {
		sb.WriteString(fmt.Sprintf("    <item id=\"%s\" href=\"images/%s\" media-type=\"%s\"/>\n",
			manifestID(id), pipeline.EscapeXML(id), mediaType(images[id].Format)))
	}
	sb.WriteString("  </manifest>\n")

	sb.WriteString("  <spine>\n")
	sb.WriteString("    <itemref idref=\"content\"/>\n")
	sb.WriteString("  </spine>\n")
	sb.WriteString("</package>\n")

	return sb.String()
}

// manifestID derives an XML-safe manifest id from an image id. Image
// ids may start with a digit or carry arbitrary punctuation; XML ids
// may not.
func manifestID(imageID string) string {
	return "img-" + manifestIDPattern.ReplaceAllString(imageID, "_")
}

// mediaType infers the MIME type from the image format suffix.
// Everything unrecognized defaults to JPEG, the dominant OCR output
// format.
func mediaType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
