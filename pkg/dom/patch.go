package dom

// PatchOp is the type of live-document patch operation.
type PatchOp uint8

const (
	PatchSetText    PatchOp = 0x01 // Update text content
	PatchSetAttr    PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchInsert     PatchOp = 0x04 // Insert a serialized subtree
	PatchRemove     PatchOp = 0x05 // Remove node
	PatchClear      PatchOp = 0x06 // Remove all children
	PatchBindEvent  PatchOp = 0x07 // Start forwarding an event type
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsert:
		return "Insert"
	case PatchRemove:
		return "Remove"
	case PatchClear:
		return "Clear"
	case PatchBindEvent:
		return "BindEvent"
	default:
		return "Unknown"
	}
}

// Patch is a single live-document mutation, as forwarded to a connected
// client mirror.
type Patch struct {
	Op     PatchOp
	Node   uint64 // Target node; for Insert, the inserted subtree's root
	Parent uint64 // Parent node, for Insert
	Next   uint64 // Insertion anchor; 0 means append
	Key    string // Attribute or event name
	Value  string // Attribute value, text content, or serialized subtree
}

// PatchSink receives every mutation applied to a live document, in
// application order. A document without a sink mutates silently.
type PatchSink interface {
	Apply(p Patch)
}
