package html

import (
	"testing"

	"github.com/weft-dev/weft/pkg/dom"
)

func TestConstructorArguments(t *testing.T) {
	tests := []struct {
		name  string
		build func() *dom.Element
		want  string
	}{
		{
			"attrs and text",
			func() *dom.Element {
				return Div(Class("card"), ID("c1"), Text("hello"))
			},
			`<div class="card" id="c1">hello</div>`,
		},
		{
			"string shorthand",
			func() *dom.Element { return P("plain") },
			"<p>plain</p>",
		},
		{
			"nested children",
			func() *dom.Element {
				return Ul(Li("a"), Li("b"))
			},
			"<ul><li>a</li><li>b</li></ul>",
		},
		{
			"attr slice",
			func() *dom.Element {
				return A([]Attr{Href("/x"), Class("l")})
			},
			`<a class="l" href="/x"></a>`,
		},
		{
			"node slice",
			func() *dom.Element {
				return Div([]dom.Node{Text("a"), Text("b")})
			},
			"<div>ab</div>",
		},
		{
			"nil skipped",
			func() *dom.Element { return Div(nil, Text("x"), nil) },
			"<div>x</div>",
		},
		{
			"formatted text",
			func() *dom.Element { return Span(Textf("%d%%", 40)) },
			"<span>40%</span>",
		},
		{
			"void input",
			func() *dom.Element {
				return Input(Type("text"), Name("q"), Placeholder("search"))
			},
			`<input name="q" placeholder="search" type="text">`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := dom.MarkupString(tc.build()); got != tc.want {
				t.Errorf("markup = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConstructorsBuildHydrating(t *testing.T) {
	e := Div()
	if e.Mode() != dom.ModeHydrating {
		t.Errorf("mode = %v, want %v", e.Mode(), dom.ModeHydrating)
	}
}

func TestHandlerBinding(t *testing.T) {
	doc := dom.NewDocument()
	clicked := false
	btn := Button(Text("go"), OnClick(func(dom.Event) { clicked = true }))

	ln := dom.Materialize(doc, btn)
	if !doc.Dispatch(dom.Event{Type: "click", Node: ln.NodeID()}) {
		t.Fatal("no click handler bound after materialize")
	}
	if !clicked {
		t.Error("handler did not run")
	}
}

func TestUnsupportedArgumentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unsupported argument type did not panic")
		}
	}()
	Div(42)
}
