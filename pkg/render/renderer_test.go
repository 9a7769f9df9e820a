package render

import (
	"strings"
	"testing"

	"github.com/weft-dev/weft/pkg/dom"
	"github.com/weft-dev/weft/pkg/html"
)

func TestRenderToString(t *testing.T) {
	r := New()
	got, err := r.RenderToString(html.Div(html.Class("x"), html.Text("hi")))
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if got != `<div class="x">hi</div>` {
		t.Errorf("markup = %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	r := New(WithLang("de"), WithLiveEndpoint("/weft/live"))
	page := Page{
		Title: "Home",
		Head:  []dom.Node{html.Meta(html.Name("description"), html.Content("d"))},
		Body:  html.Div(html.ID("app")),
	}
	got, err := r.RenderPageToString(page)
	if err != nil {
		t.Fatalf("RenderPageToString: %v", err)
	}

	for _, frag := range []string{
		"<!DOCTYPE html>",
		`<html lang="de">`,
		`<meta charset="utf-8">`,
		"<title>Home</title>",
		`<meta content="d" name="description">`,
		`<div id="app"></div>`,
		`<script src="/weft/client.js" data-weft-live="/weft/live" defer></script>`,
		"</body></html>",
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("page missing %q:\n%s", frag, got)
		}
	}
}

func TestRenderPageWithoutLive(t *testing.T) {
	r := New()
	got, err := r.RenderPageToString(Page{Body: html.Div()})
	if err != nil {
		t.Fatalf("RenderPageToString: %v", err)
	}
	if strings.Contains(got, "<script") {
		t.Errorf("bootstrap script emitted without a live endpoint:\n%s", got)
	}
	if !strings.Contains(got, `<html lang="en">`) {
		t.Errorf("default lang missing:\n%s", got)
	}
}

func TestRenderPageEscapesTitle(t *testing.T) {
	r := New()
	got, err := r.RenderPageToString(Page{Title: "a < b"})
	if err != nil {
		t.Fatalf("RenderPageToString: %v", err)
	}
	if !strings.Contains(got, "<title>a &lt; b</title>") {
		t.Errorf("title not escaped:\n%s", got)
	}
}
