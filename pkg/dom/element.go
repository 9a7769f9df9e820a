package dom

import "io"

// Element is a logical element node. It owns exactly one underlying
// representation appropriate to its mode: a markup description, a live
// element, or (briefly, while hydrating) both.
//
// Mutating operations are dispatched to every representation that currently
// exists, so a tree built for hydration stays consistent across the
// transition to live mode.
type Element struct {
	mode   Mode
	markup *markupElement
	live   *LiveElement
	groups *ChildGroups
}

// markupElement is the markup-buildable representation of an element. It
// records everything needed to serialize the element or to replay it onto a
// live document during hydration.
type markupElement struct {
	tag       string
	namespace string
	attrs     map[string]string
	children  []Node
	handlers  []boundHandler
	effects   []func(*LiveElement)
}

type boundHandler struct {
	name string
	fn   EventHandler
}

func newMarkupElement(namespace, tag string) *markupElement {
	return &markupElement{
		tag:       tag,
		namespace: namespace,
		attrs:     make(map[string]string),
	}
}

// NewElement creates a markup-only element. Markup-only elements serialize
// to HTML and never acquire a live backing.
func NewElement(tag string) *Element {
	return &Element{mode: ModeMarkup, markup: newMarkupElement("", tag)}
}

// NewElementNS creates a markup-only element in the given namespace.
func NewElementNS(namespace, tag string) *Element {
	return &Element{mode: ModeMarkup, markup: newMarkupElement(namespace, tag)}
}

// NewHydratingElement creates an element that carries a markup description
// and can later be hydrated onto an existing live subtree, or materialized
// fresh into a live document.
func NewHydratingElement(tag string) *Element {
	return &Element{mode: ModeHydrating, markup: newMarkupElement("", tag)}
}

// NewHydratingElementNS is the namespaced variant of NewHydratingElement.
func NewHydratingElementNS(namespace, tag string) *Element {
	return &Element{mode: ModeHydrating, markup: newMarkupElement(namespace, tag)}
}

// NewLiveElement creates an element backed directly by a live document.
// The element starts empty and detached.
func NewLiveElement(doc *Document, tag string) *Element {
	return &Element{mode: ModeLive, live: doc.createElement("", tag)}
}

// NewLiveElementNS is the namespaced variant of NewLiveElement.
func NewLiveElementNS(doc *Document, namespace, tag string) *Element {
	return &Element{mode: ModeLive, live: doc.createElement(namespace, tag)}
}

// wrapLive wraps an existing live element in a logical handle.
func wrapLive(le *LiveElement) *Element {
	return &Element{mode: ModeLive, live: le}
}

// Mode returns the element's current execution strategy.
func (e *Element) Mode() Mode { return e.mode }

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	if e.markup != nil {
		return e.markup.tag
	}
	return e.live.Tag()
}

// Live returns the element's live representation, or nil before hydration.
func (e *Element) Live() *LiveElement { return e.live }

// LiveNode implements Node.
func (e *Element) LiveNode() LiveNode {
	if e.live == nil {
		return nil
	}
	return e.live
}

// SetAttribute sets an attribute on every representation the element has.
func (e *Element) SetAttribute(name, value string) {
	if e.markup != nil {
		e.markup.attrs[name] = value
	}
	if e.live != nil {
		e.live.SetAttr(name, value)
	}
}

// RemoveAttribute removes an attribute from every representation.
func (e *Element) RemoveAttribute(name string) {
	if e.markup != nil {
		delete(e.markup.attrs, name)
	}
	if e.live != nil {
		e.live.RemoveAttr(name)
	}
}

// Attribute returns the attribute's current value.
func (e *Element) Attribute(name string) (string, bool) {
	if e.markup != nil {
		v, ok := e.markup.attrs[name]
		return v, ok
	}
	return e.live.Attr(name)
}

// On binds an event handler. On live elements the binding takes effect
// immediately; on markup descriptions it is recorded and replayed during
// hydration.
func (e *Element) On(event string, fn EventHandler) {
	if e.markup != nil {
		e.markup.handlers = append(e.markup.handlers, boundHandler{name: event, fn: fn})
	}
	if e.live != nil {
		e.live.On(event, fn)
	}
}

// Effect runs fn with the element's concrete live handle. On live elements
// it runs synchronously; on markup descriptions it is deferred until the
// element acquires a live backing. Markup-only elements never run effects.
func (e *Element) Effect(fn func(*LiveElement)) {
	if e.live != nil {
		fn(e.live)
		return
	}
	e.markup.effects = append(e.markup.effects, fn)
}

// AppendChild appends child as the last child of e.
// The child must be in a mode compatible with e's mode.
func (e *Element) AppendChild(child Node) {
	if e.markup != nil {
		e.markup.children = append(e.markup.children, child)
	}
	if e.live != nil {
		e.live.AppendChild(requireLive(child))
	}
}

// InsertChildBefore inserts child immediately before next. A nil next
// appends.
func (e *Element) InsertChildBefore(child, next Node) {
	if e.markup != nil {
		inserted := false
		if next != nil {
			for i, c := range e.markup.children {
				if SameNode(c, next) {
					kids := e.markup.children
					kids = append(kids, nil)
					copy(kids[i+1:], kids[i:])
					kids[i] = child
					e.markup.children = kids
					inserted = true
					break
				}
			}
		}
		if !inserted {
			e.markup.children = append(e.markup.children, child)
		}
	}
	if e.live != nil {
		var anchor LiveNode
		if next != nil {
			anchor = next.LiveNode()
		}
		e.live.InsertBefore(requireLive(child), anchor)
	}
}

// RemoveChild removes child from e. Removing a node that is not a child is
// a no-op.
func (e *Element) RemoveChild(child Node) {
	if e.markup != nil {
		for i, c := range e.markup.children {
			if SameNode(c, child) {
				e.markup.children = append(e.markup.children[:i], e.markup.children[i+1:]...)
				break
			}
		}
	}
	if e.live != nil {
		if ln := child.LiveNode(); ln != nil {
			e.live.RemoveChild(ln)
		}
	}
}

// ClearChildren removes all children of e.
func (e *Element) ClearChildren() {
	if e.markup != nil {
		e.markup.children = nil
	}
	if e.live != nil {
		e.live.ClearChildren()
	}
}

// Children returns the element's description children. It returns nil for
// live-only elements, whose children are tracked by the document.
func (e *Element) Children() []Node {
	if e.markup == nil {
		return nil
	}
	return e.markup.children
}

// Groups returns the element's child-group reconciler, creating it on first
// use. An element owns exactly one ChildGroups instance.
func (e *Element) Groups() *ChildGroups {
	if e.groups == nil {
		e.groups = NewChildGroups(e)
	}
	return e.groups
}

// WriteMarkup implements Node. Elements with a markup description
// serialize it; live elements serialize their current document state.
func (e *Element) WriteMarkup(w io.Writer) error {
	if e.markup == nil {
		return e.live.WriteMarkup(w)
	}
	return e.markup.write(w)
}

// String renders the element's markup description.
func (e *Element) String() string { return MarkupString(e) }

// requireLive returns the live representation of child, panicking if the
// child has none. Mixing markup children into a live parent is a
// programming error.
func requireLive(child Node) LiveNode {
	ln := child.LiveNode()
	if ln == nil {
		panic("dom: child of a live element must have a live representation")
	}
	return ln
}
