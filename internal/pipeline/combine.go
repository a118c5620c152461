package pipeline

import (
	"sort"
	"strings"
)

// PageSeparator joins combined pages. The horizontal rule keeps each
// page a distinct block for downstream renderers.
const PageSeparator = "\n\n---\n\n"

// Combine merges ordered pages into a single markdown document.
// Pages are stable-sorted by index ascending (ties keep arrival order)
// and each page has its table placeholders inlined before joining, so a
// page's tables can never leak into another page sharing an id.
// Returns an empty string when there are no pages.
func Combine(doc Document) string {
	if len(doc.Pages) == 0 {
		return ""
	}

	pages := make([]Page, len(doc.Pages))
	copy(pages, doc.Pages)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, InlineTables(page.Markdown, page.Tables))
	}
	return strings.Join(parts, PageSeparator)
}

// InlineTables replaces every literal [id](id) link placeholder in the
// markdown with the matching table content. A table missing its id or
// content is skipped; a placeholder with no matching table is left
// untouched. Idempotent once no placeholders remain.
func InlineTables(markdown string, tables []Table) string {
	for _, t := range tables {
		if t.ID == "" || t.Content == "" {
			continue
		}
		placeholder := "[" + t.ID + "](" + t.ID + ")"
		markdown = strings.ReplaceAll(markdown, placeholder, t.Content)
	}
	return markdown
}
