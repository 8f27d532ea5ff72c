// Package adf handles the tracker's recursive rich-text document format.
//
// Documents arrive as decoded JSON. FromValue turns them into a Node tree;
// ExtractText flattens a tree (or a plain string) into display text.
package adf

import "encoding/json"

// Kind classifies a node for text extraction.
type Kind int

const (
	// KindOther is any node whose children are traversed without extra output.
	KindOther Kind = iota
	// KindText is a leaf carrying text.
	KindText
	// KindParagraph is followed by a newline once any text has been seen.
	KindParagraph
	// KindHardBreak emits a newline and is not descended into.
	KindHardBreak
)

// Type tags used by the tracker.
const (
	TypeDoc       = "doc"
	TypeParagraph = "paragraph"
	TypeText      = "text"
	TypeHardBreak = "hardBreak"
)

// Node is one element of a document tree.
type Node struct {
	Kind    Kind
	Type    string
	Text    string
	HasText bool
	Content []Node
}

// FromValue builds a Node from a decoded JSON value. Values that are not
// objects produce an empty KindOther node.
func FromValue(v interface{}) Node {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return Node{Kind: KindOther}
	}

	n := Node{}
	if t, ok := obj["type"].(string); ok {
		n.Type = t
	}
	n.Kind = kindOf(n.Type)

	if text, ok := obj["text"].(string); ok {
		n.Text = text
		n.HasText = true
	}

	if children, ok := obj["content"].([]interface{}); ok {
		n.Content = appendChildren(nil, children)
	}

	return n
}

// appendChildren flattens nested arrays and drops scalars.
func appendChildren(dst []Node, children []interface{}) []Node {
	for _, child := range children {
		switch c := child.(type) {
		case map[string]interface{}:
			dst = append(dst, FromValue(c))
		case []interface{}:
			dst = appendChildren(dst, c)
		}
	}
	return dst
}

func kindOf(typ string) Kind {
	switch typ {
	case TypeText:
		return KindText
	case TypeParagraph:
		return KindParagraph
	case TypeHardBreak:
		return KindHardBreak
	default:
		return KindOther
	}
}

// UnmarshalJSON decodes any JSON value into a Node. Only syntax errors fail.
func (n *Node) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = FromValue(v)
	return nil
}
