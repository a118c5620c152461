package pipeline

import (
	"regexp"
	"strings"
)

// DefaultResourcePrefix is the canonical resource folder for flat-file
// outputs and the EPUB content document.
const DefaultResourcePrefix = "images/"

// imageLinkPattern matches markdown image syntax ![alt](src). Sources
// containing whitespace (e.g. a trailing title) are left alone.
var imageLinkPattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)

// RewriteImagePaths prefixes the src of every markdown image reference
// with the given resource folder. Sources that are external (http...),
// data URIs, or already carry the prefix are untouched, which makes the
// rewrite idempotent. Non-image links are never modified.
func RewriteImagePaths(markdown, prefix string) string {
	if prefix == "" {
		return markdown
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return imageLinkPattern.ReplaceAllStringFunc(markdown, func(match string) string {
		sub := imageLinkPattern.FindStringSubmatch(match)
		alt, src := sub[1], sub[2]
		if skipRewrite(src, prefix) {
			return match
		}
		return "![" + alt + "](" + prefix + src + ")"
	})
}

// skipRewrite reports whether an image source must keep its original
// path.
func skipRewrite(src, prefix string) bool {
	return strings.HasPrefix(src, "http") ||
		strings.HasPrefix(src, "data:") ||
		strings.HasPrefix(src, prefix)
}
