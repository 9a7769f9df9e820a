package dom

import "github.com/weft-dev/weft/pkg/reactive"

// BindText keeps t's content equal to f(), re-running at queue flush when a
// signal read by f changes.
func BindText(owner *reactive.Owner, q *reactive.Queue, t *Text, f func() string) {
	reactive.NewEffect(owner, q, func() reactive.Cleanup {
		t.SetText(f())
		return nil
	})
}

// BindAttr keeps the named attribute of e equal to f(). An empty string
// removes the attribute.
func BindAttr(owner *reactive.Owner, q *reactive.Queue, e *Element, name string, f func() string) {
	reactive.NewEffect(owner, q, func() reactive.Cleanup {
		if v := f(); v == "" {
			e.RemoveAttribute(name)
		} else {
			e.SetAttribute(name, v)
		}
		return nil
	})
}

// BindChild reserves a child group on parent and keeps it occupied by the
// node f returns. A nil result empties the region. Returns the slot index.
func BindChild(owner *reactive.Owner, q *reactive.Queue, parent *Element, f func() Node) int {
	groups := parent.Groups()
	index := groups.NewGroup()

	var current Node
	reactive.NewEffect(owner, q, func() reactive.Cleanup {
		next := f()
		switch {
		case next == nil:
			if current != nil {
				groups.RemoveChild(index)
			}
		case !SameNode(next, current):
			groups.UpsertOnlyChild(index, next)
		}
		current = next
		return nil
	})

	return index
}
