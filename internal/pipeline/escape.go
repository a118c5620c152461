package pipeline

import "strings"

// xmlReplacer maps the five XML special characters to their named
// entities. Everything else passes through unchanged.
var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes a string for safe use in XML and HTML text or
// attribute content. An empty input yields an empty string.
func EscapeXML(s string) string {
	if s == "" {
		return ""
	}
	return xmlReplacer.Replace(s)
}
