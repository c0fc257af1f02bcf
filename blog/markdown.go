package blog

import (
	"bytes"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"inkwell/cache"
	"inkwell/log"
)

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

// rendered fragments keep until the content hash changes or they age out
const renderCacheAge = 12 * time.Hour

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// on a render error, fall back to the raw content instead of a broken page
		return content
	}
	return buf.String()
}

// renderCached renders markdown through the fragment cache, so a popular
// post's body is converted once per edit rather than once per view.
func renderCached(content string) string {
	if html, found := cache.Get(content, renderCacheAge); found {
		return html
	}

	html := renderMarkdown(content)
	if err := cache.Put(content, html); err != nil {
		log.Warn.Printf("could not cache rendered fragment: %v", err)
	}
	return html
}
