package adf

import "strings"

// ExtractText returns the display text of v.
//
// v may be nil (absent), a plain string (returned unchanged), or a decoded
// document object. The second result is false when there is no text. The
// function never fails; unexpected shapes yield partial text or nothing.
func ExtractText(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case map[string]interface{}:
		return Text(FromValue(val))
	case Node:
		return Text(val)
	case *Node:
		if val == nil {
			return "", false
		}
		return Text(*val)
	default:
		return "", false
	}
}

// Text flattens a node tree into trimmed text.
func Text(root Node) (string, bool) {
	var parts []string
	collect(root, &parts)

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", false
	}
	return text, true
}

func collect(n Node, parts *[]string) {
	if n.Kind == KindHardBreak {
		*parts = append(*parts, "\n")
		return
	}

	if n.HasText {
		*parts = append(*parts, n.Text)
	}

	for _, child := range n.Content {
		collect(child, parts)
	}

	if n.Kind == KindParagraph && len(*parts) > 0 {
		*parts = append(*parts, "\n")
	}
}
