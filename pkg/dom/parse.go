package dom

import (
	"io"

	"golang.org/x/net/html"
)

// ParseDocument builds a live document from served HTML. It is how a
// hydration run obtains the pre-existing live tree matching what the server
// rendered.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	d := &Document{nodes: make(map[uint64]LiveNode)}

	htmlNode := findElement(root, "html")
	if htmlNode == nil {
		// html.Parse always synthesizes an html element, but keep the
		// fallback for malformed input.
		d.root = d.createElement("", "html")
	} else {
		d.root = d.convertElement(htmlNode)
	}

	d.head = childElement(d.root, "head")
	d.body = childElement(d.root, "body")
	return d, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func childElement(e *LiveElement, tag string) *LiveElement {
	for _, child := range e.children {
		if ce, ok := child.(*LiveElement); ok && ce.tag == tag {
			return ce
		}
	}
	return nil
}

func (d *Document) convertElement(n *html.Node) *LiveElement {
	e := d.createElement(n.Namespace, n.Data)
	for _, attr := range n.Attr {
		e.attrs[attr.Key] = attr.Val
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := d.convertElement(c)
			child.parent = e
			e.children = append(e.children, child)
		case html.TextNode:
			if c.Data == "" {
				continue
			}
			t := d.createText(c.Data)
			t.parent = e
			e.children = append(e.children, t)
		}
	}
	return e
}
