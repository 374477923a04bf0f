package adf

// Atlassian Document Format, reduced to the subset the ticketing flows use:
// a document is an ordered list of blocks, and the only block we ever emit or
// interpret is a paragraph of plain text runs.

type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// FromText wraps plain text as a single-paragraph document, the shape the
// remote API expects for descriptions and comment bodies.
func FromText(text string) *Document {
	return &Document{
		Type:    "doc",
		Version: 1,
		Content: []Node{
			{
				Type: "paragraph",
				Content: []Node{
					{Type: "text", Text: text},
				},
			},
		},
	}
}
