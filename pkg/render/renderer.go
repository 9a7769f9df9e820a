// Package render turns weft trees into served HTML pages: full-page
// assembly with head content and the client bootstrap, streamed to a writer.
package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/weft-dev/weft/pkg/dom"
)

// Renderer renders node trees and pages to HTML.
type Renderer struct {
	config Config
}

// Config configures the renderer.
type Config struct {
	// Lang is the html element's lang attribute. Defaults to "en".
	Lang string

	// LiveEndpoint, when set, emits the client bootstrap script that
	// connects back to the live session endpoint after load.
	LiveEndpoint string

	// ClientSrc is the URL of the client runtime script. Only used when
	// LiveEndpoint is set. Defaults to "/weft/client.js".
	ClientSrc string
}

// Option configures a Renderer.
type Option func(*Config)

// WithLang sets the document language.
func WithLang(lang string) Option {
	return func(c *Config) { c.Lang = lang }
}

// WithLiveEndpoint enables the client bootstrap against the given live
// session endpoint.
func WithLiveEndpoint(endpoint string) Option {
	return func(c *Config) { c.LiveEndpoint = endpoint }
}

// WithClientSrc overrides the client runtime script URL.
func WithClientSrc(src string) Option {
	return func(c *Config) { c.ClientSrc = src }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	cfg := Config{Lang: "en", ClientSrc: "/weft/client.js"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Renderer{config: cfg}
}

// RenderToWriter streams a node's markup to w.
func (r *Renderer) RenderToWriter(w io.Writer, node dom.Node) error {
	return node.WriteMarkup(w)
}

// RenderToString renders a node's markup to a string.
func (r *Renderer) RenderToString(node dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Page is a full HTML document around one body tree.
type Page struct {
	// Title is the document title.
	Title string

	// Head is extra head content (meta, link, style trees).
	Head []dom.Node

	// Body is the tree rendered inside the body element.
	Body dom.Node
}

// RenderPage streams a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html lang=%q><head><meta charset=\"utf-8\">", r.config.Lang); err != nil {
		return err
	}
	if page.Title != "" {
		title := dom.NewElement("title")
		title.AppendChild(dom.NewText(page.Title))
		if err := title.WriteMarkup(w); err != nil {
			return err
		}
	}
	for _, n := range page.Head {
		if err := n.WriteMarkup(w); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head><body>"); err != nil {
		return err
	}
	if page.Body != nil {
		if err := page.Body.WriteMarkup(w); err != nil {
			return err
		}
	}
	if r.config.LiveEndpoint != "" {
		if _, err := fmt.Fprintf(w, `<script src=%q data-weft-live=%q defer></script>`,
			r.config.ClientSrc, r.config.LiveEndpoint); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body></html>")
	return err
}

// RenderPageToString renders a complete HTML document to a string.
func (r *Renderer) RenderPageToString(page Page) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}
