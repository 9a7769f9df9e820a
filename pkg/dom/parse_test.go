package dom

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	const served = `<!DOCTYPE html><html lang="en"><head><title>t</title></head>` +
		`<body><div id="app" class="x"><p>hello</p></div></body></html>`

	doc, err := ParseDocument(strings.NewReader(served))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Head() == nil || doc.Body() == nil {
		t.Fatal("head or body missing")
	}
	if v, ok := doc.Root().Attr("lang"); !ok || v != "en" {
		t.Errorf("lang = %q, %v", v, ok)
	}

	app := doc.GetElementByID("app")
	if app == nil {
		t.Fatal("GetElementByID(app) = nil")
	}
	if got := app.String(); got != `<div class="x" id="app"><p>hello</p></div>` {
		t.Errorf("app markup = %q", got)
	}
}

func TestParseThenHydrate(t *testing.T) {
	// The round trip a live session performs: render, parse the output,
	// hydrate a fresh description onto the parsed document.
	desc := NewHydratingElement("div")
	desc.SetAttribute("id", "app")
	p := NewHydratingElement("p")
	p.AppendChild(NewHydratingText("hello"))
	desc.AppendChild(p)

	served := "<!DOCTYPE html><html><head></head><body>" + MarkupString(desc) + "</body></html>"
	doc, err := ParseDocument(strings.NewReader(served))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	fresh := NewHydratingElement("div")
	fresh.SetAttribute("id", "app")
	fp := NewHydratingElement("p")
	fp.AppendChild(NewHydratingText("hello"))
	fresh.AppendChild(fp)

	var stats HydrationStats
	fresh.Hydrate(doc.GetElementByID("app"), &stats)

	if stats.Discarded != 0 {
		t.Errorf("Discarded = %d, want 0 on a faithful round trip", stats.Discarded)
	}
	if stats.Matched != 3 {
		t.Errorf("Matched = %d, want 3", stats.Matched)
	}
}

func TestParseMalformedInput(t *testing.T) {
	// html.Parse repairs rather than rejects; the result must still have
	// the skeleton.
	doc, err := ParseDocument(strings.NewReader("<p>unclosed"))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Root() == nil || doc.Body() == nil {
		t.Error("repaired document missing skeleton")
	}
}
