package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Event is a UI event forwarded from a client mirror to the live document.
type Event struct {
	Type  string // Event type, e.g. "click"
	Node  uint64 // Target node id
	Value string // Optional payload, e.g. an input's current value
}

// EventHandler handles a live-document event.
type EventHandler func(Event)

// Document is an in-memory live document: the authoritative tree a mounted
// application mutates directly. Every mutation is forwarded to the
// document's PatchSink, if one is set, so a thin client can mirror it.
//
// A Document is not safe for concurrent use. Callers serialize access
// through a single dispatch goroutine, as the live session layer does.
type Document struct {
	nextID uint64
	root   *LiveElement
	head   *LiveElement
	body   *LiveElement
	sink   PatchSink
	nodes  map[uint64]LiveNode
}

// NewDocument creates a document with the usual html/head/body skeleton.
func NewDocument() *Document {
	d := &Document{nodes: make(map[uint64]LiveNode)}
	d.root = d.createElement("", "html")
	d.head = d.createElement("", "head")
	d.body = d.createElement("", "body")
	d.root.children = []LiveNode{d.head, d.body}
	d.head.parent = d.root
	d.body.parent = d.root
	return d
}

// SetSink sets the sink that receives all subsequent mutations.
func (d *Document) SetSink(sink PatchSink) { d.sink = sink }

// Root returns the document's root element.
func (d *Document) Root() *LiveElement { return d.root }

// Head returns the document's head element, or nil if the document has
// none (possible for parsed fragments).
func (d *Document) Head() *LiveElement { return d.head }

// Body returns the document's body element.
func (d *Document) Body() *LiveElement { return d.body }

// GetElementByID returns the element whose id attribute equals id, or nil.
func (d *Document) GetElementByID(id string) *LiveElement {
	return findByID(d.root, id)
}

func findByID(e *LiveElement, id string) *LiveElement {
	if e == nil {
		return nil
	}
	if v, ok := e.attrs["id"]; ok && v == id {
		return e
	}
	for _, child := range e.children {
		if ce, ok := child.(*LiveElement); ok {
			if found := findByID(ce, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// NodeByID returns the live node with the given internal id, or nil.
func (d *Document) NodeByID(id uint64) LiveNode { return d.nodes[id] }

// Dispatch routes a client event to the handler bound on its target node.
// It reports whether a handler was found.
func (d *Document) Dispatch(ev Event) bool {
	n, ok := d.nodes[ev.Node]
	if !ok {
		return false
	}
	e, ok := n.(*LiveElement)
	if !ok {
		return false
	}
	h, ok := e.handlers[ev.Type]
	if !ok {
		return false
	}
	h(ev)
	return true
}

func (d *Document) createElement(namespace, tag string) *LiveElement {
	d.nextID++
	e := &LiveElement{
		doc:       d,
		id:        d.nextID,
		tag:       tag,
		namespace: namespace,
		attrs:     make(map[string]string),
	}
	d.nodes[e.id] = e
	return e
}

func (d *Document) createText(text string) *LiveText {
	d.nextID++
	t := &LiveText{doc: d, id: d.nextID, text: text}
	d.nodes[t.id] = t
	return t
}

func (d *Document) emit(p Patch) {
	if d.sink != nil {
		d.sink.Apply(p)
	}
}

// release drops a detached subtree from the document's node registry.
func (d *Document) release(n LiveNode) {
	delete(d.nodes, n.NodeID())
	if e, ok := n.(*LiveElement); ok {
		for _, child := range e.children {
			d.release(child)
		}
	}
}

// LiveNode is a node backed by an actual position in a live document:
// either a *LiveElement or a *LiveText.
type LiveNode interface {
	// NodeID returns the document-unique id of this node.
	NodeID() uint64

	// ParentElement returns the node's current parent, or nil if detached.
	ParentElement() *LiveElement

	// WriteMarkup serializes the node's current state as HTML.
	WriteMarkup(w io.Writer) error

	document() *Document
	setParent(p *LiveElement)
	writeWire(w io.Writer) error
}

// LiveElement is an element in a live document.
type LiveElement struct {
	doc       *Document
	id        uint64
	tag       string
	namespace string
	attrs     map[string]string
	children  []LiveNode
	parent    *LiveElement
	handlers  map[string]EventHandler
}

// NodeID implements LiveNode.
func (e *LiveElement) NodeID() uint64 { return e.id }

// Tag returns the element's tag name.
func (e *LiveElement) Tag() string { return e.tag }

// Namespace returns the element's namespace, or "" for plain HTML.
func (e *LiveElement) Namespace() string { return e.namespace }

// ParentElement implements LiveNode.
func (e *LiveElement) ParentElement() *LiveElement { return e.parent }

func (e *LiveElement) document() *Document      { return e.doc }
func (e *LiveElement) setParent(p *LiveElement) { e.parent = p }

// Attr returns the attribute's value.
func (e *LiveElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute and forwards the mutation.
func (e *LiveElement) SetAttr(name, value string) {
	if cur, ok := e.attrs[name]; ok && cur == value {
		return
	}
	e.attrs[name] = value
	e.doc.emit(Patch{Op: PatchSetAttr, Node: e.id, Key: name, Value: value})
}

// RemoveAttr removes an attribute and forwards the mutation.
func (e *LiveElement) RemoveAttr(name string) {
	if _, ok := e.attrs[name]; !ok {
		return
	}
	delete(e.attrs, name)
	e.doc.emit(Patch{Op: PatchRemoveAttr, Node: e.id, Key: name})
}

// On binds an event handler, replacing any previous handler for the same
// event type, and tells the client mirror to start forwarding that event.
func (e *LiveElement) On(event string, fn EventHandler) {
	if !e.bind(event, fn) {
		e.doc.emit(Patch{Op: PatchBindEvent, Node: e.id, Key: event})
	}
}

// bind stores the handler without emitting a patch. It reports whether the
// event type was already bound.
func (e *LiveElement) bind(event string, fn EventHandler) bool {
	if e.handlers == nil {
		e.handlers = make(map[string]EventHandler)
	}
	_, rebound := e.handlers[event]
	e.handlers[event] = fn
	return rebound
}

// Children returns a copy of the element's child list.
func (e *LiveElement) Children() []LiveNode {
	kids := make([]LiveNode, len(e.children))
	copy(kids, e.children)
	return kids
}

// AppendChild appends child as the last child of e, detaching it from any
// previous parent first.
func (e *LiveElement) AppendChild(child LiveNode) {
	e.InsertBefore(child, nil)
}

// InsertBefore inserts child immediately before next. A nil next appends.
// The child is detached from any previous parent first.
func (e *LiveElement) InsertBefore(child, next LiveNode) {
	if p := child.ParentElement(); p != nil {
		p.detach(child)
	}

	idx := len(e.children)
	var nextID uint64
	if next != nil {
		for i, c := range e.children {
			if c == next {
				idx = i
				nextID = next.NodeID()
				break
			}
		}
	}

	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = child
	child.setParent(e)

	var wire strings.Builder
	child.writeWire(&wire)
	e.doc.emit(Patch{
		Op:     PatchInsert,
		Node:   child.NodeID(),
		Parent: e.id,
		Next:   nextID,
		Value:  wire.String(),
	})
}

// RemoveChild removes child from e and drops its subtree from the document
// registry. Removing a node that is not a child of e is a no-op.
func (e *LiveElement) RemoveChild(child LiveNode) {
	if child.ParentElement() != e {
		return
	}
	e.detach(child)
	e.doc.release(child)
	e.doc.emit(Patch{Op: PatchRemove, Node: child.NodeID()})
}

// ClearChildren removes all children of e.
func (e *LiveElement) ClearChildren() {
	for _, child := range e.children {
		child.setParent(nil)
		e.doc.release(child)
	}
	e.children = nil
	e.doc.emit(Patch{Op: PatchClear, Node: e.id})
}

// detach removes child from e's child list without emitting a patch.
func (e *LiveElement) detach(child LiveNode) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.setParent(nil)
			return
		}
	}
}

// WriteMarkup serializes the element's current state as HTML.
func (e *LiveElement) WriteMarkup(w io.Writer) error { return e.write(w, false) }

func (e *LiveElement) writeWire(w io.Writer) error { return e.write(w, true) }

func (e *LiveElement) write(w io.Writer, wire bool) error {
	if _, err := fmt.Fprintf(w, "<%s", e.tag); err != nil {
		return err
	}

	if wire {
		if _, err := fmt.Fprintf(w, ` data-wid="%d"`, e.id); err != nil {
			return err
		}
		if len(e.handlers) > 0 {
			events := make([]string, 0, len(e.handlers))
			for name := range e.handlers {
				events = append(events, name)
			}
			sort.Strings(events)
			if _, err := fmt.Fprintf(w, ` data-won="%s"`, strings.Join(events, " ")); err != nil {
				return err
			}
		}
	}

	keys := make([]string, 0, len(e.attrs))
	for key := range e.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(e.attrs[key])); err != nil {
			return err
		}
	}

	if IsVoidElement(e.tag) && len(e.children) == 0 {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, child := range e.children {
		var err error
		if wire {
			err = child.writeWire(w)
		} else {
			err = child.WriteMarkup(w)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", e.tag)
	return err
}

// String serializes the element's current state as HTML.
func (e *LiveElement) String() string {
	var sb strings.Builder
	e.WriteMarkup(&sb)
	return sb.String()
}

// LiveText is a text node in a live document.
type LiveText struct {
	doc    *Document
	id     uint64
	text   string
	parent *LiveElement
}

// NodeID implements LiveNode.
func (t *LiveText) NodeID() uint64 { return t.id }

// ParentElement implements LiveNode.
func (t *LiveText) ParentElement() *LiveElement { return t.parent }

func (t *LiveText) document() *Document      { return t.doc }
func (t *LiveText) setParent(p *LiveElement) { t.parent = p }

// Text returns the node's current content.
func (t *LiveText) Text() string { return t.text }

// SetText replaces the node's content and forwards the mutation.
func (t *LiveText) SetText(text string) {
	if t.text == text {
		return
	}
	t.text = text
	t.doc.emit(Patch{Op: PatchSetText, Node: t.id, Value: text})
}

// WriteMarkup serializes the text node as escaped HTML.
func (t *LiveText) WriteMarkup(w io.Writer) error {
	_, err := io.WriteString(w, escapeText(t.text))
	return err
}

// writeWire prefixes the text with a marker comment so the client mirror
// can address the text node for later SetText patches.
func (t *LiveText) writeWire(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "<!--w:%d-->", t.id); err != nil {
		return err
	}
	return t.WriteMarkup(w)
}
