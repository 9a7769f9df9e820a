package dom

// GroupParent is the narrow mutation contract ChildGroups needs from its
// parent node.
type GroupParent interface {
	AppendChild(child Node)
	InsertChildBefore(child, next Node)
	RemoveChild(child Node)
}

// ChildGroups manages ordered groups of children under one parent.
//
// Each logical child region (a conditional branch, one position in a
// reactive list) gets a stable slot index regardless of how many times its
// content changes, so reconciliation never renumbers siblings. Insertion
// order is recovered by scanning for the next occupied slot, which keeps the
// structure flat: no sibling links to maintain, at the cost of a short scan.
//
// A slot holds a non-owning reference to the child currently anchoring that
// region, or nil while the region is empty. ChildGroups handles ordering and
// eviction only; child lifetimes are owned by whoever created them.
type ChildGroups struct {
	parent GroupParent
	slots  []Node

	// lastIsDynamic is true while the most recently created slot's
	// occupant may still change without a new registration.
	lastIsDynamic bool
	groupCount    int
}

// NewChildGroups creates an empty ChildGroups for parent. A parent owns
// exactly one ChildGroups instance.
func NewChildGroups(parent GroupParent) *ChildGroups {
	return &ChildGroups{parent: parent}
}

// IsSingleGroup reports whether exactly one group exists. Callers use this
// to take faster paths when no interleaving with sibling regions is
// possible.
func (g *ChildGroups) IsSingleGroup() bool {
	return g.groupCount == 1
}

// NewGroup reserves the next slot index for a region whose content will be
// determined later, and returns the index.
func (g *ChildGroups) NewGroup() int {
	g.groupCount++
	g.lastIsDynamic = true
	index := len(g.slots)
	g.slots = append(g.slots, nil)
	return index
}

// NextGroupNode returns the occupant of the first occupied slot strictly
// after index, or nil if every later slot is empty. It is the insertion
// anchor for that region.
func (g *ChildGroups) NextGroupNode(index int) Node {
	for _, slot := range g.slots[index+1:] {
		if slot != nil {
			return slot
		}
	}
	return nil
}

// AppendNewGroupSync appends a statically-known trailing child as a new
// group, without waiting for a deferred update. The child is known to be
// last, so no anchor search is needed.
func (g *ChildGroups) AppendNewGroupSync(child Node) {
	if g.lastIsDynamic {
		g.slots = append(g.slots, child)
	}

	g.groupCount++
	g.parent.AppendChild(child)
	// No index was given out, so this group cannot change.
	g.lastIsDynamic = false
}

// InsertOnlyChild places child in an empty slot. It panics if the slot
// already held a child, which indicates a programming error in the caller.
func (g *ChildGroups) InsertOnlyChild(index int, child Node) {
	if g.UpsertOnlyChild(index, child) {
		panic("dom: InsertOnlyChild on an occupied slot")
	}
}

// UpsertOnlyChild places child in the slot at index, evicting any previous
// occupant from the parent first. It reports whether an occupant existed.
func (g *ChildGroups) UpsertOnlyChild(index int, child Node) bool {
	existing := g.slots[index]
	g.slots[index] = child
	if existing != nil {
		g.parent.RemoveChild(existing)
	}

	g.insertLastChild(index, child)

	return existing != nil
}

// insertLastChild inserts child at the end of the region at index, using
// the next occupied slot as the anchor.
func (g *ChildGroups) insertLastChild(index int, child Node) {
	g.parent.InsertChildBefore(child, g.NextGroupNode(index))
}

// RemoveChild evicts the slot's occupant from the parent, if any, and
// clears the slot.
func (g *ChildGroups) RemoveChild(index int) {
	if existing := g.slots[index]; existing != nil {
		g.slots[index] = nil
		g.parent.RemoveChild(existing)
	}
}

// SetFirstChild records child as the slot's occupant without touching the
// document. Used when the region's own reconciler already performed the
// mutation and only the bookkeeping must catch up.
func (g *ChildGroups) SetFirstChild(index int, child Node) {
	g.slots[index] = child
}

// ClearFirstChild clears the slot's record without touching the document.
func (g *ChildGroups) ClearFirstChild(index int) {
	g.slots[index] = nil
}

// ShrinkToFit releases excess reserved slot capacity. It has no observable
// behavior change.
func (g *ChildGroups) ShrinkToFit() {
	if cap(g.slots) > len(g.slots) {
		shrunk := make([]Node, len(g.slots))
		copy(shrunk, g.slots)
		g.slots = shrunk
	}
}
