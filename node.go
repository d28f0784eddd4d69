package rendertree

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Text is the payload of a KindText node.
type Text struct {
	// Value is the body of the run that will be drawn.
	Value string
	// Font is the font family name.
	Font string
	// FontSize is the size in pixels. Always positive and finite.
	FontSize float32
	// Bold reports a bold weight.
	Bold bool
}

// Validate checks the payload invariants.
func (t Text) Validate() error {
	switch {
	case !utf8.ValidString(t.Value):
		return fmt.Errorf("%w: value is not valid UTF-8", ErrInvalidText)
	case t.Font == "":
		return fmt.Errorf("%w: empty font family", ErrInvalidText)
	case !utf8.ValidString(t.Font):
		return fmt.Errorf("%w: font is not valid UTF-8", ErrInvalidText)
	}
	size := float64(t.FontSize)
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return fmt.Errorf("%w: font size %v", ErrInvalidText, t.FontSize)
	}
	return nil
}

// Node is one element of a render tree.
//
// The kind and its payload are only ever set together by Root and NewText.
// A Node is a plain value: copying it copies the payload, so a caller-held
// Node never aliases tree storage.
type Node struct {
	kind Kind
	text Text
}

// Root returns the root marker node.
func Root() Node {
	return Node{kind: KindRoot}
}

// NewText returns a text node after validating t.
func NewText(t Text) (Node, error) {
	if err := t.Validate(); err != nil {
		return Node{}, err
	}
	return Node{kind: KindText, text: t}, nil
}

// Kind returns the node's variant.
func (n Node) Kind() Kind {
	return n.kind
}

// IsRoot reports whether n is the root marker.
func (n Node) IsRoot() bool {
	return n.kind == KindRoot
}

// IsText reports whether n carries a text payload.
func (n Node) IsText() bool {
	return n.kind == KindText
}

// Text returns the text payload. It fails with ErrWrongVariant for any other
// kind.
func (n Node) Text() (Text, error) {
	if n.kind != KindText {
		return Text{}, fmt.Errorf("%w: %s node has no text payload", ErrWrongVariant, n.kind)
	}
	return n.text, nil
}

// Equal reports whether n and o hold the same kind and payload.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		return false
	}
	if n.kind == KindText {
		return n.text == o.text
	}
	return true
}

// String returns a debug representation of the node.
func (n Node) String() string {
	switch n.kind {
	case KindRoot:
		return "Root"
	case KindText:
		return fmt.Sprintf("Text{value:%q, font:%q, font_size:%g, is_bold:%t}",
			n.text.Value, n.text.Font, n.text.FontSize, n.text.Bold)
	default:
		return unknownStr
	}
}

// validate checks a node coming from an engine. Nodes built outside NewText
// can only be zero-value roots, so this mainly re-checks text payloads.
func (n Node) validate() error {
	switch n.kind {
	case KindRoot:
		return nil
	case KindText:
		return n.text.Validate()
	default:
		return fmt.Errorf("rendertree: unknown node kind %d", n.kind)
	}
}
