package xmlmodel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// lineIndex maps a byte offset into source to a 1-based line number.
type lineIndex struct {
	newlineOffsets []int // byte offset of each '\n'
}

func newLineIndex(data []byte) *lineIndex {
	li := &lineIndex{}
	for i, b := range data {
		if b == '\n' {
			li.newlineOffsets = append(li.newlineOffsets, i)
		}
	}
	return li
}

func (li *lineIndex) lineFor(offset int64) int {
	n := sort.Search(len(li.newlineOffsets), func(i int) bool {
		return int64(li.newlineOffsets[i]) >= offset
	})
	return n + 1
}

// parse decodes an XML document into a Node tree, recording the source line
// of every element and tracking namespace declarations per element so the
// original prefixes can be recovered at serialization time.
func parse(data []byte) (*Node, error) {
	li := newLineIndex(data)
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *Node
	var stack []*Node

	for {
		startOffset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("token at offset %d: %w", startOffset, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			nsDecls, attrs := splitNamespaceDecls(t.Attr)
			n := &Node{
				Kind:    ElementNode,
				Name:    QName{URI: t.Name.Space, Local: t.Name.Local},
				Attrs:   attrs,
				NSDecls: nsDecls,
				Line:    li.lineFor(startOffset),
			}
			attachChild(&stack, &root, n)
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := string(t)
			if len(stack) == 0 {
				continue // stray text outside the root, e.g. trailing newline
			}
			n := &Node{Kind: TextNode, Text: text, Line: li.lineFor(startOffset)}
			attachChild(&stack, &root, n)

		case xml.Comment:
			n := &Node{Kind: CommentNode, Text: string(t), Line: li.lineFor(startOffset)}
			attachChild(&stack, &root, n)

		case xml.ProcInst:
			n := &Node{
				Kind: ProcInstNode,
				Name: QName{Local: t.Target},
				Text: string(t.Inst),
				Line: li.lineFor(startOffset),
			}
			attachChild(&stack, &root, n)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

func attachChild(stack *[]*Node, root **Node, n *Node) {
	s := *stack
	if len(s) == 0 {
		*root = n
		return
	}
	parent := s[len(s)-1]
	n.Parent = parent
	parent.Children = append(parent.Children, n)
}

// splitNamespaceDecls pulls xmlns / xmlns:prefix declarations out of a raw
// attribute list, in the order they were written, and returns the remaining
// non-namespace attributes (already namespace-resolved by the decoder).
func splitNamespaceDecls(raw []xml.Attr) ([]NSDecl, []Attribute) {
	var decls []NSDecl
	var attrs []Attribute
	for _, a := range raw {
		switch {
		case a.Name.Space == "xmlns":
			decls = append(decls, NSDecl{Prefix: a.Name.Local, URI: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			decls = append(decls, NSDecl{Prefix: "", URI: a.Value})
		default:
			attrs = append(attrs, Attribute{Name: QName{URI: a.Name.Space, Local: a.Name.Local}, Value: a.Value})
		}
	}
	return decls, attrs
}
