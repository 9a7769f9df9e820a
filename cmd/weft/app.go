package main

import (
	"fmt"

	"github.com/weft-dev/weft/pkg/dom"
	"github.com/weft-dev/weft/pkg/html"
)

// demoApp builds the counter page the bare CLI serves. Each call
// returns a fresh tree; sessions must not share nodes.
func demoApp() *dom.Element {
	count := 0
	label := html.Text("Count: 0")

	return html.Div(
		html.Class("counter"),
		html.H1(html.Text("Weft")),
		html.P(label),
		html.Button(
			html.Text("Increment"),
			html.OnClick(func(dom.Event) {
				count++
				label.SetText(fmt.Sprintf("Count: %d", count))
			}),
		),
	)
}
