package render

import (
	"bytes"
	"html/template"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/samounneang/asatec-vercel/internal/catalog"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	contentPolicy = newContentPolicy()
)

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// ContentHTML converts a page body to sanitized HTML. Markdown goes through
// goldmark first; the result is always passed through the UGC policy.
func ContentHTML(page catalog.PageContent) template.HTML {
	source := []byte(page.Content)
	if page.IsMarkdown() {
		var buf bytes.Buffer
		if err := markdown.Convert(source, &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(page.Content))
		}
		source = buf.Bytes()
	}
	return template.HTML(contentPolicy.SanitizeBytes(source))
}

// PageContent renders an editable content page.
func PageContent(page catalog.PageContent) templ.Component {
	return fragment("page_content", struct {
		Page catalog.PageContent
		Body template.HTML
	}{Page: page, Body: ContentHTML(page)})
}
