package dom

import (
	"io"
	"strings"
)

// Mode is the execution strategy of a logical node.
type Mode uint8

const (
	ModeMarkup    Mode = iota // Server-only markup rendering, terminal
	ModeLive                  // Backed by a live document, terminal
	ModeHydrating             // Markup description awaiting hydration
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeMarkup:
		return "Markup"
	case ModeLive:
		return "Live"
	case ModeHydrating:
		return "Hydrating"
	default:
		return "Unknown"
	}
}

// Node is the strategy-independent handle an application holds to a tree
// node. It is implemented by *Element and *Text only.
//
// Identity is by reference: two Node values are the same node iff they point
// at the same underlying representation. Use SameNode for diffing.
type Node interface {
	// Mode returns the node's current execution strategy.
	Mode() Mode

	// LiveNode returns the node's live representation, or nil if the node
	// has no live backing (markup mode, or hydrating and not yet hydrated).
	LiveNode() LiveNode

	// WriteMarkup serializes the node to w: the markup description when
	// one exists, otherwise the live node's current state.
	WriteMarkup(w io.Writer) error

	// hydrate transitions the node to live mode against an optional
	// existing live node under parent. It reports whether existing was
	// consumed (reused or discarded).
	hydrate(parent *LiveElement, existing LiveNode, stats *HydrationStats) (LiveNode, bool)

	// materialize builds a fresh live representation in doc and
	// transitions the node to live mode.
	materialize(doc *Document) LiveNode
}

// Materialize builds a fresh live representation of n in doc and
// transitions n to live mode. Already-live nodes are returned unchanged.
// It panics for markup-only nodes, which never acquire a live backing.
func Materialize(doc *Document, n Node) LiveNode {
	if n.LiveNode() == nil && n.Mode() == ModeMarkup {
		panic("dom: cannot materialize a markup-only node")
	}
	return n.materialize(doc)
}

// SameNode reports whether a and b are handles to the same node.
// Comparison is by reference to the owned representation, never structural.
func SameNode(a, b Node) bool {
	return a != nil && b != nil && a == b
}

// MarkupString renders a node's markup description to a string.
func MarkupString(n Node) string {
	var sb strings.Builder
	if err := n.WriteMarkup(&sb); err != nil {
		return ""
	}
	return sb.String()
}
