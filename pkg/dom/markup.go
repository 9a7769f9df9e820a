package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// write serializes the element description as HTML. Attributes are written
// in sorted order for deterministic output.
func (m *markupElement) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "<%s", m.tag); err != nil {
		return err
	}

	if m.namespace != "" {
		if _, err := fmt.Fprintf(w, ` xmlns="%s"`, escapeAttr(m.namespace)); err != nil {
			return err
		}
	}

	keys := make([]string, 0, len(m.attrs))
	for key := range m.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(m.attrs[key])); err != nil {
			return err
		}
	}

	if IsVoidElement(m.tag) && len(m.children) == 0 {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	for _, child := range m.children {
		if err := child.WriteMarkup(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", m.tag)
	return err
}

// escapeText escapes text for safe inclusion in HTML content.
func escapeText(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

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

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Whitespace characters that could break attribute parsing are escaped too.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
