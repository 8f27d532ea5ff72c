package adf

// Document is the outgoing form of a rich-text body.
type Document struct {
	Type    string      `json:"type"`
	Version int         `json:"version"`
	Content []Paragraph `json:"content"`
}

// Paragraph is a block holding inline text nodes.
type Paragraph struct {
	Type    string     `json:"type"`
	Content []TextLeaf `json:"content"`
}

// TextLeaf is an inline text node.
type TextLeaf struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewDocument wraps plain text in a document with one paragraph holding one
// text node. The text is carried as-is, newlines included.
func NewDocument(text string) Document {
	return Document{
		Type:    TypeDoc,
		Version: 1,
		Content: []Paragraph{
			{
				Type:    TypeParagraph,
				Content: []TextLeaf{{Type: TypeText, Text: text}},
			},
		},
	}
}
