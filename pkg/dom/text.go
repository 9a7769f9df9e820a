package dom

import "io"

// Text is a logical text node.
type Text struct {
	mode   Mode
	markup *markupText
	live   *LiveText
}

type markupText struct {
	text string
}

// NewText creates a markup-only text node.
func NewText(text string) *Text {
	return &Text{mode: ModeMarkup, markup: &markupText{text: text}}
}

// NewHydratingText creates a text node that can be hydrated onto an existing
// live text node.
func NewHydratingText(text string) *Text {
	return &Text{mode: ModeHydrating, markup: &markupText{text: text}}
}

// NewLiveText creates a text node backed directly by a live document.
func NewLiveText(doc *Document, text string) *Text {
	return &Text{mode: ModeLive, live: doc.createText(text)}
}

// Mode returns the text node's execution strategy.
func (t *Text) Mode() Mode { return t.mode }

// Live returns the live representation, or nil before hydration.
func (t *Text) Live() *LiveText { return t.live }

// LiveNode implements Node.
func (t *Text) LiveNode() LiveNode {
	if t.live == nil {
		return nil
	}
	return t.live
}

// SetText replaces the node's content on every representation.
func (t *Text) SetText(text string) {
	if t.markup != nil {
		t.markup.text = text
	}
	if t.live != nil {
		t.live.SetText(text)
	}
}

// Text returns the node's current content.
func (t *Text) Text() string {
	if t.markup != nil {
		return t.markup.text
	}
	return t.live.Text()
}

// WriteMarkup implements Node.
func (t *Text) WriteMarkup(w io.Writer) error {
	if t.markup == nil {
		return t.live.WriteMarkup(w)
	}
	_, err := io.WriteString(w, escapeText(t.markup.text))
	return err
}

// String renders the text node's markup description.
func (t *Text) String() string { return MarkupString(t) }
