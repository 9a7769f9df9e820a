// Package html provides hand-written element constructors for building weft
// trees. Constructed nodes carry a markup description and can be rendered to
// HTML, hydrated onto served markup, or materialized into a live document.
package html

import (
	"fmt"

	"github.com/weft-dev/weft/pkg/dom"
)

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// Handler binds an event handler to the element under construction.
type Handler struct {
	Event string
	Fn    dom.EventHandler
}

// newElement creates an element with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, Handler, dom.Node, []dom.Node, or a
// string (shorthand for a text child).
func newElement(tag string, args []any) *dom.Element {
	e := dom.NewHydratingElement(tag)

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Allows conditional attributes and children.
		case Attr:
			e.SetAttribute(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				e.SetAttribute(a.Key, a.Value)
			}
		case Handler:
			e.On(v.Event, v.Fn)
		case dom.Node:
			e.AppendChild(v)
		case []dom.Node:
			for _, child := range v {
				e.AppendChild(child)
			}
		case string:
			e.AppendChild(dom.NewHydratingText(v))
		default:
			panic(fmt.Sprintf("html: unsupported argument type %T for <%s>", arg, tag))
		}
	}

	return e
}

// Text creates a text node.
func Text(content string) *dom.Text {
	return dom.NewHydratingText(content)
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *dom.Text {
	return Text(fmt.Sprintf(format, args...))
}

// Structural elements

func Div(args ...any) *dom.Element     { return newElement("div", args) }
func Span(args ...any) *dom.Element    { return newElement("span", args) }
func P(args ...any) *dom.Element       { return newElement("p", args) }
func Main(args ...any) *dom.Element    { return newElement("main", args) }
func Section(args ...any) *dom.Element { return newElement("section", args) }
func Header(args ...any) *dom.Element  { return newElement("header", args) }
func Footer(args ...any) *dom.Element  { return newElement("footer", args) }
func Nav(args ...any) *dom.Element     { return newElement("nav", args) }

// Headings

func H1(args ...any) *dom.Element { return newElement("h1", args) }
func H2(args ...any) *dom.Element { return newElement("h2", args) }
func H3(args ...any) *dom.Element { return newElement("h3", args) }

// Lists

func Ul(args ...any) *dom.Element { return newElement("ul", args) }
func Ol(args ...any) *dom.Element { return newElement("ol", args) }
func Li(args ...any) *dom.Element { return newElement("li", args) }

// Inline and form elements

func A(args ...any) *dom.Element        { return newElement("a", args) }
func Button(args ...any) *dom.Element   { return newElement("button", args) }
func Input(args ...any) *dom.Element    { return newElement("input", args) }
func TextArea(args ...any) *dom.Element { return newElement("textarea", args) }
func Form(args ...any) *dom.Element     { return newElement("form", args) }
func Label(args ...any) *dom.Element    { return newElement("label", args) }
func Img(args ...any) *dom.Element      { return newElement("img", args) }
func Pre(args ...any) *dom.Element      { return newElement("pre", args) }
func Code(args ...any) *dom.Element     { return newElement("code", args) }

// Head elements

func Title(args ...any) *dom.Element  { return newElement("title", args) }
func Meta(args ...any) *dom.Element   { return newElement("meta", args) }
func Link(args ...any) *dom.Element   { return newElement("link", args) }
func Script(args ...any) *dom.Element { return newElement("script", args) }
func Style(args ...any) *dom.Element  { return newElement("style", args) }
