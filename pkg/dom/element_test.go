package dom

import (
	"strings"
	"testing"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeMarkup, "Markup"},
		{ModeLive, "Live"},
		{ModeHydrating, "Hydrating"},
		{Mode(99), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.mode.String(); got != tc.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.want)
		}
	}
}

func TestMarkupElementRendering(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Element
		want  string
	}{
		{
			"empty div",
			func() *Element { return NewElement("div") },
			"<div></div>",
		},
		{
			"sorted attributes",
			func() *Element {
				e := NewElement("a")
				e.SetAttribute("href", "/x")
				e.SetAttribute("class", "link")
				return e
			},
			`<a class="link" href="/x"></a>`,
		},
		{
			"void element",
			func() *Element {
				e := NewElement("br")
				return e
			},
			"<br>",
		},
		{
			"escaped attribute",
			func() *Element {
				e := NewElement("div")
				e.SetAttribute("title", `a"b<c`)
				return e
			},
			`<div title="a&quot;b&lt;c"></div>`,
		},
		{
			"escaped text child",
			func() *Element {
				e := NewElement("p")
				e.AppendChild(NewText("1 < 2 & 3 > 2"))
				return e
			},
			"<p>1 &lt; 2 &amp; 3 &gt; 2</p>",
		},
		{
			"namespace",
			func() *Element {
				return NewElementNS("http://www.w3.org/2000/svg", "svg")
			},
			`<svg xmlns="http://www.w3.org/2000/svg"></svg>`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MarkupString(tc.build()); got != tc.want {
				t.Errorf("markup = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMarkupChildSplicing(t *testing.T) {
	parent := NewElement("ul")
	a := NewElement("li")
	a.AppendChild(NewText("a"))
	c := NewElement("li")
	c.AppendChild(NewText("c"))
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := NewElement("li")
	b.AppendChild(NewText("b"))
	parent.InsertChildBefore(b, c)

	if got := MarkupString(parent); got != "<ul><li>a</li><li>b</li><li>c</li></ul>" {
		t.Errorf("after insert: %q", got)
	}

	parent.RemoveChild(a)
	if got := MarkupString(parent); got != "<ul><li>b</li><li>c</li></ul>" {
		t.Errorf("after remove: %q", got)
	}

	// Inserting before an unknown anchor appends.
	parent.InsertChildBefore(a, NewElement("li"))
	if got := MarkupString(parent); got != "<ul><li>b</li><li>c</li><li>a</li></ul>" {
		t.Errorf("after insert with foreign anchor: %q", got)
	}

	parent.ClearChildren()
	if got := MarkupString(parent); got != "<ul></ul>" {
		t.Errorf("after clear: %q", got)
	}
}

func TestLiveElementOperations(t *testing.T) {
	doc := NewDocument()
	e := NewLiveElement(doc, "div")

	if e.Mode() != ModeLive {
		t.Fatalf("mode = %v, want %v", e.Mode(), ModeLive)
	}
	e.SetAttribute("class", "box")
	if v, ok := e.Attribute("class"); !ok || v != "box" {
		t.Errorf("Attribute = %q, %v", v, ok)
	}
	e.RemoveAttribute("class")
	if _, ok := e.Attribute("class"); ok {
		t.Error("attribute survived removal")
	}

	child := NewLiveText(doc, "hi")
	e.AppendChild(child)
	if got := e.Live().String(); got != "<div>hi</div>" {
		t.Errorf("markup = %q", got)
	}
	e.RemoveChild(child)
	if got := e.Live().String(); got != "<div></div>" {
		t.Errorf("markup after remove = %q", got)
	}
}

func TestLiveEffectRunsImmediately(t *testing.T) {
	doc := NewDocument()
	e := NewLiveElement(doc, "div")

	ran := false
	e.Effect(func(le *LiveElement) {
		ran = true
		if le != e.Live() {
			t.Error("effect received a different live element")
		}
	})
	if !ran {
		t.Error("effect on a live element did not run synchronously")
	}
}

func TestMixedModeChildPanics(t *testing.T) {
	doc := NewDocument()
	parent := NewLiveElement(doc, "div")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("appending a markup child to a live parent did not panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "live representation") {
			t.Errorf("panic = %v", r)
		}
	}()
	parent.AppendChild(NewText("x"))
}

func TestSameNodeIdentity(t *testing.T) {
	a := NewText("same")
	b := NewText("same")

	if !SameNode(a, a) {
		t.Error("SameNode(a, a) = false")
	}
	if SameNode(a, b) {
		t.Error("structurally equal nodes compared as same")
	}
	if SameNode(nil, a) || SameNode(a, nil) {
		t.Error("SameNode with nil = true")
	}
}

func TestMaterializeMarkupOnlyPanics(t *testing.T) {
	doc := NewDocument()
	defer func() {
		if recover() == nil {
			t.Error("materializing a markup-only node did not panic")
		}
	}()
	Materialize(doc, NewElement("div"))
}

func TestMaterializeHydratingTree(t *testing.T) {
	doc := NewDocument()
	desc := NewHydratingElement("section")
	desc.SetAttribute("id", "s")
	desc.AppendChild(NewHydratingText("body"))

	ln := Materialize(doc, desc)
	le, ok := ln.(*LiveElement)
	if !ok {
		t.Fatalf("materialized node is %T", ln)
	}
	if got := le.String(); got != `<section id="s">body</section>` {
		t.Errorf("markup = %q", got)
	}
	if desc.Mode() != ModeLive {
		t.Errorf("mode = %v, want %v", desc.Mode(), ModeLive)
	}
	// A second materialize returns the same backing.
	if again := Materialize(doc, desc); again != ln {
		t.Error("second Materialize built a new node")
	}
}
