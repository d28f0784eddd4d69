// Package style resolves the font metadata of render-tree text runs.
//
// It holds the user-agent presets for the text-bearing tags (h1..h6, p), a
// parser for inline style declarations, and the small cascade the engines
// apply: inherited parent style, then tag preset, then inline declarations.
package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/rendertree"
)

// DefaultFont is the family used when no style names one.
const DefaultFont = "Times New Roman"

// DefaultSize is the font size of the document element, in pixels.
const DefaultSize float32 = 16

// Style is the computed font metadata of an element.
type Style struct {
	Font string
	Size float32
	Bold bool
}

// Default returns the style of the document element.
func Default() Style {
	return Style{Font: DefaultFont, Size: DefaultSize}
}

// presets are the font size and weight the engine assigns per text tag.
var presets = map[string]Style{
	"h1": {Font: DefaultFont, Size: 37, Bold: true},
	"h2": {Font: DefaultFont, Size: 27.5, Bold: true},
	"h3": {Font: DefaultFont, Size: 21.5, Bold: true},
	"h4": {Font: DefaultFont, Size: 18.5, Bold: true},
	"h5": {Font: DefaultFont, Size: 15.5, Bold: true},
	"h6": {Font: DefaultFont, Size: 12, Bold: true},
	"p":  {Font: DefaultFont, Size: 18.5},
}

// Preset returns the preset style for a text tag.
func Preset(tag string) (Style, bool) {
	s, ok := presets[strings.ToLower(tag)]
	return s, ok
}

// IsTextTag reports whether elements named tag become text runs.
func IsTextTag(tag string) bool {
	_, ok := presets[strings.ToLower(tag)]
	return ok
}

// Resolve computes the style of an element named tag whose parent has the
// computed style parent and whose style attribute is inline.
//
// The preset only sets size and weight; the family is inherited. Relative
// sizes in inline resolve against the parent size.
func Resolve(parent Style, tag, inline string) (Style, error) {
	s := parent
	if p, ok := Preset(tag); ok {
		s.Size = p.Size
		s.Bold = p.Bold
	}
	decls, err := ParseDeclarations(inline)
	if err != nil {
		return parent, err
	}
	return s.apply(decls, parent.Size)
}

// Apply returns s with decls applied. Relative sizes resolve against s.Size.
// Properties other than font-family, font-size and font-weight are ignored.
func (s Style) Apply(decls []Declaration) (Style, error) {
	return s.apply(decls, s.Size)
}

func (s Style) apply(decls []Declaration, base float32) (Style, error) {
	for _, d := range decls {
		var err error
		switch d.Property {
		case "font-family":
			if family := firstFamily(d.Terms); family != "" && family != "inherit" {
				s.Font = family
			}
		case "font-size":
			s.Size, err = fontSize(d.Terms, base)
		case "font-weight":
			s.Bold, err = fontWeight(d.Terms)
		}
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrInvalidDeclaration, d.Property, err)
		}
	}
	return s, nil
}

// Text returns the render-tree payload for value drawn in s.
func (s Style) Text(value string) rendertree.Text {
	return rendertree.Text{Value: value, Font: s.Font, FontSize: s.Size, Bold: s.Bold}
}

// firstFamily returns the first entry of a comma-separated family list.
// Unquoted multi-word names are joined with single spaces.
func firstFamily(terms []Term) string {
	var words []string
	for _, t := range terms {
		if t.Kind == TermComma {
			if len(words) > 0 {
				break
			}
			continue
		}
		words = append(words, t.Text)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func fontSize(terms []Term, base float32) (float32, error) {
	if len(terms) != 1 {
		return 0, fmt.Errorf("want one value, got %d", len(terms))
	}
	t := terms[0]

	var (
		v   float64
		err error
	)
	switch t.Kind {
	case TermNumber:
		v, err = strconv.ParseFloat(t.Text, 32)
	case TermDimension:
		v, err = dimension(t.Text, float64(base))
	case TermIdent:
		if strings.EqualFold(t.Text, "inherit") {
			return base, nil
		}
		return 0, fmt.Errorf("unsupported keyword %q", t.Text)
	default:
		return 0, fmt.Errorf("unexpected %q", t.Text)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > math.MaxFloat32 {
		return 0, fmt.Errorf("size %v out of range", v)
	}
	size := float32(v)
	if size <= 0 {
		return 0, fmt.Errorf("size %v out of range", v)
	}
	return size, nil
}

// dimension converts a number with a unit to pixels.
func dimension(s string, base float64) (float64, error) {
	i := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || r == '%'
	})
	if i < 0 {
		return 0, fmt.Errorf("missing unit in %q", s)
	}
	num, unit := s[:i], strings.ToLower(s[i:])
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "px":
		return v, nil
	case "pt":
		return v * 4 / 3, nil
	case "em":
		return v * base, nil
	case "rem":
		return v * float64(DefaultSize), nil
	case "%":
		return v / 100 * base, nil
	default:
		return 0, fmt.Errorf("unsupported unit %q", unit)
	}
}

func fontWeight(terms []Term) (bool, error) {
	if len(terms) != 1 {
		return false, fmt.Errorf("want one value, got %d", len(terms))
	}
	t := terms[0]
	switch t.Kind {
	case TermIdent:
		switch strings.ToLower(t.Text) {
		case "bold", "bolder":
			return true, nil
		case "normal", "lighter":
			return false, nil
		}
	case TermNumber:
		w, err := strconv.Atoi(t.Text)
		if err == nil && w >= 1 && w <= 1000 {
			return w >= 600, nil
		}
	}
	return false, fmt.Errorf("unsupported weight %q", t.Text)
}

// CollapseText collapses runs of whitespace to single spaces, trims the ends
// and applies Unicode NFC normalisation.
func CollapseText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
