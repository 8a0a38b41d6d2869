package xmlmodel

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Serialize writes n and its subtree as XML to w, resolving every QName back
// to the prefix in effect at that point in the tree (inherited bindings plus
// any NSDecls carried on the node itself).
func Serialize(w io.Writer, n *Node) error {
	return serializeNode(w, n)
}

func serializeNode(w io.Writer, n *Node) error {
	switch n.Kind {
	case TextNode:
		_, err := io.WriteString(w, escapeText(n.Text))
		return err
	case CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Text)
		return err
	case ProcInstNode:
		_, err := fmt.Fprintf(w, "<?%s %s?>", n.Name.Local, n.Text)
		return err
	case ElementNode:
		return serializeElement(w, n)
	default:
		return fmt.Errorf("xmlmodel: unknown node kind %d", n.Kind)
	}
}

func serializeElement(w io.Writer, n *Node) error {
	tag, err := qualify(n, n.Name)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}

	for _, d := range n.NSDecls {
		if d.Prefix == "" {
			if _, err := fmt.Fprintf(w, ` xmlns="%s"`, escapeAttr(d.URI)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, ` xmlns:%s="%s"`, d.Prefix, escapeAttr(d.URI)); err != nil {
				return err
			}
		}
	}

	for _, a := range n.Attrs {
		aname, err := qualifyAttr(n, a.Name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, aname, escapeAttr(a.Value)); err != nil {
			return err
		}
	}

	if len(n.Children) == 0 {
		_, err := fmt.Fprint(w, "/>")
		return err
	}

	if _, err := fmt.Fprint(w, ">"); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := serializeNode(w, c); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "</%s>", tag)
	return err
}

// qualify resolves an element QName to "prefix:local" (or "local" for the
// default/no namespace) using the namespace scope in effect at n.
func qualify(n *Node, name QName) (string, error) {
	if name.URI == "" {
		return name.Local, nil
	}
	prefix, ok := n.PrefixFor(name.URI)
	if !ok {
		return "", fmt.Errorf("xmlmodel: no prefix bound for namespace %q at line %d", name.URI, n.Line)
	}
	if prefix == "" {
		return name.Local, nil
	}
	return prefix + ":" + name.Local, nil
}

// qualifyAttr is like qualify but attributes with no namespace are never
// prefixed by a default-namespace binding (XML namespace rule: unprefixed
// attribute names are never in any namespace).
func qualifyAttr(n *Node, name QName) (string, error) {
	if name.URI == "" {
		return name.Local, nil
	}
	prefix, ok := n.PrefixFor(name.URI)
	if !ok || prefix == "" {
		return "", fmt.Errorf("xmlmodel: no prefix bound for attribute namespace %q at line %d", name.URI, n.Line)
	}
	return prefix + ":" + name.Local, nil
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// Bytes renders the document to an in-memory XML byte slice.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, d.Root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the document and writes it to path as given.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("xmlmodel: serialize: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("xmlmodel: write %s: %w", path, err)
	}
	return nil
}
