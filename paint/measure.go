package paint

import (
	"math"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// advance returns the shaped width of s in pixels. Shaping applies kerning
// and ligatures, so it is more accurate than summing glyph advances.
//
// A fresh go-text face is created per call: gotext.Face is not safe for
// concurrent use, while the underlying *gotext.Font is.
func (p *Painter) advance(f *Font, s string, size float32) float64 {
	if s == "" {
		return 0
	}
	runes := []rune(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.shape),
		Size:      floatToFixed(float64(size)),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := p.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	p.shapers.Put(hb)

	return fixedToFloat(out.Advance)
}

// lineMetrics are the vertical extents of a face, in pixels.
type lineMetrics struct {
	ascent  float64
	descent float64
	gap     float64
}

func metricsOf(face font.Face) lineMetrics {
	m := face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := math.Abs(fixedToFloat(m.Descent))
	gap := fixedToFloat(m.Height) - ascent - descent
	if gap < 0 {
		gap = 0
	}
	return lineMetrics{ascent: ascent, descent: descent, gap: gap}
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
