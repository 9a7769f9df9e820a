package html

import "github.com/weft-dev/weft/pkg/dom"

// SetAttr creates an arbitrary attribute.
func SetAttr(key, value string) Attr { return Attr{Key: key, Value: value} }

// Common attributes

func ID(v string) Attr          { return Attr{Key: "id", Value: v} }
func Class(v string) Attr       { return Attr{Key: "class", Value: v} }
func Href(v string) Attr        { return Attr{Key: "href", Value: v} }
func Src(v string) Attr         { return Attr{Key: "src", Value: v} }
func Type(v string) Attr        { return Attr{Key: "type", Value: v} }
func Name(v string) Attr        { return Attr{Key: "name", Value: v} }
func Value(v string) Attr       { return Attr{Key: "value", Value: v} }
func Placeholder(v string) Attr { return Attr{Key: "placeholder", Value: v} }
func Rel(v string) Attr         { return Attr{Key: "rel", Value: v} }
func Alt(v string) Attr         { return Attr{Key: "alt", Value: v} }
func Charset(v string) Attr     { return Attr{Key: "charset", Value: v} }
func Content(v string) Attr     { return Attr{Key: "content", Value: v} }

// Event handlers

func on(event string, fn dom.EventHandler) Handler { return Handler{Event: event, Fn: fn} }

func OnClick(fn dom.EventHandler) Handler    { return on("click", fn) }
func OnDblClick(fn dom.EventHandler) Handler { return on("dblclick", fn) }
func OnInput(fn dom.EventHandler) Handler    { return on("input", fn) }
func OnChange(fn dom.EventHandler) Handler   { return on("change", fn) }
func OnSubmit(fn dom.EventHandler) Handler   { return on("submit", fn) }
func OnKeyDown(fn dom.EventHandler) Handler  { return on("keydown", fn) }
func OnKeyUp(fn dom.EventHandler) Handler    { return on("keyup", fn) }
func OnFocus(fn dom.EventHandler) Handler    { return on("focus", fn) }
func OnBlur(fn dom.EventHandler) Handler     { return on("blur", fn) }
