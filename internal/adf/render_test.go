package adf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{
			name: "single paragraph",
			doc: &Document{Type: "doc", Version: 1, Content: []Node{
				{Type: "paragraph", Content: []Node{{Type: "text", Text: "Hello"}}},
			}},
			want: "<p>Hello</p>",
		},
		{
			name: "text runs concatenate without separator",
			doc: &Document{Content: []Node{
				{Type: "paragraph", Content: []Node{
					{Type: "text", Text: "Hel"},
					{Type: "text", Text: "lo"},
				}},
			}},
			want: "<p>Hello</p>",
		},
		{
			name: "unknown block type is skipped",
			doc: &Document{Content: []Node{
				{Type: "codeBlock", Content: []Node{{Type: "text", Text: "x"}}},
			}},
			want: "",
		},
		{
			name: "unknown inline type is skipped",
			doc: &Document{Content: []Node{
				{Type: "paragraph", Content: []Node{
					{Type: "text", Text: "a"},
					{Type: "mention", Text: "bob"},
					{Type: "text", Text: "b"},
				}},
			}},
			want: "<p>ab</p>",
		},
		{
			name: "text runs are escaped",
			doc: &Document{Content: []Node{
				{Type: "paragraph", Content: []Node{{Type: "text", Text: "<script>"}}},
			}},
			want: "<p>&lt;script&gt;</p>",
		},
		{
			name: "nil document",
			doc:  nil,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderDocument(tt.doc))
		})
	}
}

func TestRender(t *testing.T) {
	t.Run("absent renders empty", func(t *testing.T) {
		assert.Equal(t, "", Render(nil))
		assert.Equal(t, "", Render(json.RawMessage("null")))
	})

	t.Run("plain string is sanitized, not escaped", func(t *testing.T) {
		raw, err := json.Marshal(`<p>hi</p><script>alert(1)</script>`)
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", Render(raw))
	})

	t.Run("structured document", func(t *testing.T) {
		raw := json.RawMessage(`{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"Hello"}]}]}`)
		assert.Equal(t, "<p>Hello</p>", Render(raw))
	})

	t.Run("garbage renders empty", func(t *testing.T) {
		assert.Equal(t, "", Render(json.RawMessage(`[1,2,3]`)))
	})
}

func TestFromText(t *testing.T) {
	doc := FromText("a problem")
	require.Len(t, doc.Content, 1)
	require.Equal(t, "paragraph", doc.Content[0].Type)
	require.Len(t, doc.Content[0].Content, 1)
	assert.Equal(t, "text", doc.Content[0].Content[0].Type)
	assert.Equal(t, "a problem", doc.Content[0].Content[0].Text)
	assert.Equal(t, "doc", doc.Type)
	assert.Equal(t, 1, doc.Version)
}
