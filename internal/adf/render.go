package adf

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ugc strips anything dangerous out of descriptions that arrive as raw HTML
// strings instead of structured documents. Policies are safe for concurrent
// use, so one shared instance is enough.
var ugc = bluemonday.UGCPolicy()

// Render converts a raw description or comment body into display HTML.
// The field may be absent, a plain string, or a structured document;
// anything unrecognized renders as the empty string rather than failing.
func Render(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ugc.Sanitize(s)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return RenderDocument(&doc)
}

// RenderDocument flattens a structured document into HTML. Only paragraph
// blocks and their text runs are interpreted; every other node type is
// skipped. Text runs are escaped, so the output is safe to inject as-is.
func RenderDocument(doc *Document) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range doc.Content {
		if block.Type != "paragraph" {
			continue
		}
		b.WriteString("<p>")
		for _, inline := range block.Content {
			if inline.Type != "text" {
				continue
			}
			b.WriteString(html.EscapeString(inline.Text))
		}
		b.WriteString("</p>")
	}
	return b.String()
}
