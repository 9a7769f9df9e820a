package dom

import (
	"fmt"
	"strings"
)

// HydrationStats counts what happened during one hydration attempt.
// Mismatches are diagnostic, not errors: hydration always converges to a
// valid live tree, discarding unusable markup along the way.
type HydrationStats struct {
	// Matched counts live nodes reused for a described node.
	Matched int

	// Discarded counts live nodes removed because they did not match the
	// description, including leftovers past the end of the description.
	Discarded int

	// TextUpdates counts reused text nodes whose content had to be
	// rewritten.
	TextUpdates int
}

// String summarizes the stats for logging.
func (s HydrationStats) String() string {
	return fmt.Sprintf("hydration: %d matched, %d discarded, %d text updates",
		s.Matched, s.Discarded, s.TextUpdates)
}

// Hydrate converts the element into a live element by consuming existing,
// a pre-existing element in a live document. If the tags match, existing is
// reused and its subtree hydrated recursively; otherwise a fresh live
// subtree is built in its place and existing is discarded.
//
// Attributes, event bindings, and effects are applied from the description
// regardless of match: served markup is not assumed to reflect current
// reactive state. Hydration happens at most once per node; hydrating an
// already-live element returns its live representation unchanged.
func (e *Element) Hydrate(existing *LiveElement, stats *HydrationStats) *LiveElement {
	if e.live != nil {
		return e.live
	}
	if e.mode == ModeMarkup {
		panic("dom: cannot hydrate a markup-only element")
	}

	parent := existing.ParentElement()
	ln, _ := e.hydrate(parent, existing, stats)
	return ln.(*LiveElement)
}

// hydrate implements Node for *Element. See Element.Hydrate.
func (e *Element) hydrate(parent *LiveElement, existing LiveNode, stats *HydrationStats) (LiveNode, bool) {
	if e.live != nil {
		return e.live, existing == LiveNode(e.live)
	}

	le, ok := existing.(*LiveElement)
	if ok && strings.EqualFold(le.Tag(), e.markup.tag) {
		stats.Matched++
		e.adopt(le, stats)
		return le, true
	}

	return replaceMismatch(e, parent, existing, stats)
}

// adopt reuses le as the element's live representation: the description's
// attributes, handlers, and effects are applied, its children hydrated
// against le's children, and leftover live children removed.
func (e *Element) adopt(le *LiveElement, stats *HydrationStats) {
	desc := e.markup
	e.live = le
	e.mode = ModeLive
	e.markup = nil

	for name, value := range desc.attrs {
		le.SetAttr(name, value)
	}
	for _, h := range desc.handlers {
		le.On(h.name, h.fn)
	}

	liveKids := le.Children()
	cursor := 0
	for _, child := range desc.children {
		var target LiveNode
		if cursor < len(liveKids) {
			target = liveKids[cursor]
		}
		if _, consumed := child.hydrate(le, target, stats); consumed {
			cursor++
		}
	}
	for ; cursor < len(liveKids); cursor++ {
		le.RemoveChild(liveKids[cursor])
		stats.Discarded++
	}

	for _, effect := range desc.effects {
		effect(le)
	}
}

// materialize implements Node for *Element.
func (e *Element) materialize(doc *Document) LiveNode {
	if e.live != nil {
		return e.live
	}
	desc := e.markup
	le := doc.createElement(desc.namespace, desc.tag)
	e.live = le
	e.mode = ModeLive
	e.markup = nil

	// The node is announced to the client as part of an insert payload,
	// so attributes and bindings are set without emitting patches.
	for name, value := range desc.attrs {
		le.attrs[name] = value
	}
	for _, h := range desc.handlers {
		le.bind(h.name, h.fn)
	}
	for _, child := range desc.children {
		le.AppendChild(child.materialize(doc))
	}
	for _, effect := range desc.effects {
		effect(le)
	}
	return le
}

// hydrate implements Node for *Text.
func (t *Text) hydrate(parent *LiveElement, existing LiveNode, stats *HydrationStats) (LiveNode, bool) {
	if t.live != nil {
		return t.live, existing == LiveNode(t.live)
	}

	if lt, ok := existing.(*LiveText); ok {
		stats.Matched++
		if lt.Text() != t.markup.text {
			lt.SetText(t.markup.text)
			stats.TextUpdates++
		}
		t.live = lt
		t.mode = ModeLive
		t.markup = nil
		return lt, true
	}

	return replaceMismatch(t, parent, existing, stats)
}

// materialize implements Node for *Text.
func (t *Text) materialize(doc *Document) LiveNode {
	if t.live != nil {
		return t.live
	}
	t.live = doc.createText(t.markup.text)
	t.mode = ModeLive
	t.markup = nil
	return t.live
}

// replaceMismatch builds the described node fresh and puts it where
// existing sits, discarding existing. With a nil existing (live children
// exhausted) the fresh node is appended.
func replaceMismatch(n Node, parent *LiveElement, existing LiveNode, stats *HydrationStats) (LiveNode, bool) {
	if existing == nil {
		fresh := n.materialize(parent.document())
		parent.AppendChild(fresh)
		return fresh, false
	}

	doc := existing.document()
	fresh := n.materialize(doc)
	if parent != nil {
		parent.InsertBefore(fresh, existing)
		parent.RemoveChild(existing)
	} else {
		// A detached root has no position to splice into: the fresh tree
		// replaces it wholesale and the old subtree leaves the registry.
		doc.release(existing)
		doc.emit(Patch{Op: PatchRemove, Node: existing.NodeID()})
	}
	stats.Discarded++
	return fresh, true
}
