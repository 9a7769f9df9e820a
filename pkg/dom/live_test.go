package dom

import (
	"strings"
	"testing"
)

// sinkRecorder collects patches for assertions.
type sinkRecorder struct {
	patches []Patch
}

func (r *sinkRecorder) Apply(p Patch) { r.patches = append(r.patches, p) }

func (r *sinkRecorder) ops() []PatchOp {
	out := make([]PatchOp, len(r.patches))
	for i, p := range r.patches {
		out[i] = p.Op
	}
	return out
}

func TestDocumentSkeleton(t *testing.T) {
	doc := NewDocument()
	if doc.Root() == nil || doc.Head() == nil || doc.Body() == nil {
		t.Fatal("document skeleton incomplete")
	}
	if got := doc.Root().Tag(); got != "html" {
		t.Errorf("root tag = %q", got)
	}
	if doc.Head().ParentElement() != doc.Root() {
		t.Error("head not parented to root")
	}
}

func TestPatchEmission(t *testing.T) {
	doc := NewDocument()
	rec := &sinkRecorder{}
	doc.SetSink(rec)

	div := doc.createElement("", "div")
	doc.Body().AppendChild(div)
	div.SetAttr("class", "a")
	div.SetAttr("class", "a") // unchanged, no patch
	div.RemoveAttr("class")
	div.RemoveAttr("class") // absent, no patch
	txt := doc.createText("hi")
	div.AppendChild(txt)
	txt.SetText("hi") // unchanged, no patch
	txt.SetText("bye")
	div.RemoveChild(txt)
	div.ClearChildren()

	want := []PatchOp{
		PatchInsert,
		PatchSetAttr,
		PatchRemoveAttr,
		PatchInsert,
		PatchSetText,
		PatchRemove,
		PatchClear,
	}
	got := rec.ops()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInsertPatchCarriesWirePayload(t *testing.T) {
	doc := NewDocument()
	rec := &sinkRecorder{}
	doc.SetSink(rec)

	btn := doc.createElement("", "button")
	btn.bind("click", func(Event) {})
	btn.AppendChild(doc.createText("go"))
	doc.Body().AppendChild(btn)

	last := rec.patches[len(rec.patches)-1]
	if last.Op != PatchInsert {
		t.Fatalf("last op = %v, want %v", last.Op, PatchInsert)
	}
	if last.Parent != doc.Body().NodeID() {
		t.Errorf("Parent = %d, want body id %d", last.Parent, doc.Body().NodeID())
	}
	for _, frag := range []string{`data-wid="`, `data-won="click"`, "<!--w:", ">go</button>"} {
		if !strings.Contains(last.Value, frag) {
			t.Errorf("wire payload %q missing %q", last.Value, frag)
		}
	}
}

func TestInsertBeforeOrdersChildren(t *testing.T) {
	doc := NewDocument()
	parent := doc.createElement("", "ul")
	a := doc.createText("a")
	c := doc.createText("c")
	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertBefore(doc.createText("b"), c)

	if got := parent.String(); got != "<ul>abc</ul>" {
		t.Errorf("markup = %q", got)
	}
}

func TestInsertBeforeReparents(t *testing.T) {
	doc := NewDocument()
	from := doc.createElement("", "div")
	to := doc.createElement("", "div")
	child := doc.createText("x")
	from.AppendChild(child)
	to.AppendChild(child)

	if len(from.Children()) != 0 {
		t.Error("child still listed under old parent")
	}
	if child.ParentElement() != to {
		t.Error("child not reparented")
	}
}

func TestDispatch(t *testing.T) {
	doc := NewDocument()
	btn := doc.createElement("", "button")
	doc.Body().AppendChild(btn)

	var got Event
	btn.On("click", func(ev Event) { got = ev })

	if !doc.Dispatch(Event{Type: "click", Node: btn.NodeID(), Value: "v"}) {
		t.Fatal("Dispatch = false for bound handler")
	}
	if got.Value != "v" {
		t.Errorf("handler saw %+v", got)
	}
	if doc.Dispatch(Event{Type: "input", Node: btn.NodeID()}) {
		t.Error("Dispatch = true for unbound event type")
	}
	if doc.Dispatch(Event{Type: "click", Node: 9999}) {
		t.Error("Dispatch = true for unknown node")
	}
}

func TestRemoveChildReleasesSubtree(t *testing.T) {
	doc := NewDocument()
	div := doc.createElement("", "div")
	inner := doc.createText("x")
	div.AppendChild(inner)
	doc.Body().AppendChild(div)

	doc.Body().RemoveChild(div)

	if doc.NodeByID(div.NodeID()) != nil {
		t.Error("removed element still registered")
	}
	if doc.NodeByID(inner.NodeID()) != nil {
		t.Error("removed element's child still registered")
	}
}

func TestOnEmitsBindOnce(t *testing.T) {
	doc := NewDocument()
	rec := &sinkRecorder{}
	doc.SetSink(rec)

	btn := doc.createElement("", "button")
	btn.On("click", func(Event) {})
	btn.On("click", func(Event) {}) // rebinding replaces, no patch

	binds := 0
	for _, p := range rec.patches {
		if p.Op == PatchBindEvent {
			binds++
		}
	}
	if binds != 1 {
		t.Errorf("bind patches = %d, want 1", binds)
	}
}

func TestGetElementByID(t *testing.T) {
	doc := NewDocument()
	div := doc.createElement("", "div")
	div.attrs["id"] = "target"
	doc.Body().AppendChild(div)

	if got := doc.GetElementByID("target"); got != div {
		t.Errorf("GetElementByID = %v, want the div", got)
	}
	if got := doc.GetElementByID("missing"); got != nil {
		t.Errorf("GetElementByID(missing) = %v, want nil", got)
	}
}

func TestPatchOpString(t *testing.T) {
	tests := []struct {
		op   PatchOp
		want string
	}{
		{PatchSetText, "SetText"},
		{PatchSetAttr, "SetAttr"},
		{PatchRemoveAttr, "RemoveAttr"},
		{PatchInsert, "Insert"},
		{PatchRemove, "Remove"},
		{PatchClear, "Clear"},
		{PatchBindEvent, "BindEvent"},
		{PatchOp(0xFF), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("PatchOp(%d).String() = %q, want %q", tc.op, got, tc.want)
		}
	}
}
