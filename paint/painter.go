package paint

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/rendertree"
	"github.com/gogpu/rendertree/internal/cache"
)

// Run is one positioned text run.
type Run struct {
	Text rendertree.Text
	// X is the left edge and Baseline the baseline, in pixels from the
	// top-left corner.
	X, Baseline float64
	// Width is the shaped advance of the run.
	Width float64
	// Ascent and Descent are the extents above and below the baseline.
	Ascent, Descent float64
}

// Layout is the result of laying out a tree.
type Layout struct {
	Runs   []Run
	Width  int
	Height int
}

// faceKey identifies a rasterising face.
type faceKey struct {
	font *Font
	size float32
}

// Painter lays out and rasterises render trees.
//
// Text runs are stacked top to bottom, one per line, in traversal order. Runs
// are not wrapped; a run wider than the page is clipped by the image bounds.
//
// Painter is safe for concurrent use.
type Painter struct {
	cfg     options
	fonts   *FontMap
	shapers sync.Pool

	// mu serialises use of faces: x/image faces keep per-face glyph state.
	mu    sync.Mutex
	faces *cache.Cache[faceKey, font.Face]
}

// New creates a Painter.
func New(opts ...Option) (*Painter, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	fonts := cfg.fonts
	if fonts == nil {
		var err error
		if fonts, err = DefaultFontMap(); err != nil {
			return nil, err
		}
	}
	if err := fonts.valid(); err != nil {
		return nil, err
	}

	p := &Painter{
		cfg:   cfg,
		fonts: fonts,
		shapers: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
	p.faces = cache.New[faceKey, font.Face](cfg.faceCacheSize, func(k faceKey, f font.Face) {
		if err := f.Close(); err != nil {
			rendertree.Logger().Warn("paint: close face", "size", k.size, "err", err)
		}
	})
	return p, nil
}

// Close releases cached faces. The Painter remains usable.
func (p *Painter) Close() {
	p.faces.Clear()
}

// Layout positions every text run of t. Root nodes produce no run.
func (p *Painter) Layout(t *rendertree.RenderTree) (*Layout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layoutLocked(t)
}

func (p *Painter) layoutLocked(t *rendertree.RenderTree) (*Layout, error) {
	it, err := rendertree.Open(t)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	l := &Layout{Width: p.cfg.width}
	y := p.cfg.margin

	var n rendertree.Node
	for {
		ok, err := it.Next(&n)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if !n.IsText() {
			continue
		}
		txt, err := n.Text()
		if err != nil {
			return nil, err
		}

		f := p.fonts.Lookup(txt.Font, txt.Bold)
		face, err := p.face(f, txt.FontSize)
		if err != nil {
			return nil, err
		}
		m := metricsOf(face)

		y += m.ascent
		l.Runs = append(l.Runs, Run{
			Text:     txt,
			X:        p.cfg.margin,
			Baseline: y,
			Width:    p.advance(f, txt.Value, txt.FontSize),
			Ascent:   m.ascent,
			Descent:  m.descent,
		})
		y += m.descent + m.gap + p.cfg.spacing
	}

	l.Height = int(math.Ceil(y + p.cfg.margin))
	rendertree.Logger().Debug("paint: layout",
		"tree", t.ID(), "runs", len(l.Runs), "height", l.Height)
	return l, nil
}

// Paint lays out t and rasterises it onto a new image sized to the layout.
func (p *Painter) Paint(t *rendertree.RenderTree) (*image.RGBA, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, err := p.layoutLocked(t)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.cfg.background), image.Point{}, draw.Src)

	src := image.NewUniform(p.cfg.foreground)
	for _, r := range l.Runs {
		f := p.fonts.Lookup(r.Text.Font, r.Text.Bold)
		face, err := p.face(f, r.Text.FontSize)
		if err != nil {
			return nil, err
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  src,
			Face: face,
			Dot:  fixed.Point26_6{X: floatToFixed(r.X), Y: floatToFixed(r.Baseline)},
		}
		d.DrawString(r.Text.Value)
	}
	return img, nil
}

// face returns the cached rasterising face for f at size. Caller must hold
// p.mu.
func (p *Painter) face(f *Font, size float32) (font.Face, error) {
	return p.faces.GetOrCreate(faceKey{font: f, size: size}, func() (font.Face, error) {
		face, err := opentype.NewFace(f.ot, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("paint: create face: %w", err)
		}
		return face, nil
	})
}

// Option configures a Painter.
type Option func(*options)

type options struct {
	width         int
	margin        float64
	spacing       float64
	fonts         *FontMap
	faceCacheSize int
	foreground    color.Color
	background    color.Color
}

func defaultOptions() options {
	return options{
		width:         800,
		margin:        16,
		spacing:       8,
		faceCacheSize: 32,
		foreground:    color.Black,
		background:    color.White,
	}
}

// WithWidth sets the page width in pixels.
func WithWidth(w int) Option {
	return func(o *options) {
		if w > 0 {
			o.width = w
		}
	}
}

// WithMargin sets the page margin in pixels.
func WithMargin(m float64) Option {
	return func(o *options) {
		if m >= 0 {
			o.margin = m
		}
	}
}

// WithSpacing sets extra space between runs in pixels.
func WithSpacing(s float64) Option {
	return func(o *options) {
		if s >= 0 {
			o.spacing = s
		}
	}
}

// WithFontMap sets the family resolution. The default maps every family to
// the Go fonts.
func WithFontMap(m *FontMap) Option {
	return func(o *options) {
		o.fonts = m
	}
}

// WithFaceCacheSize bounds the number of cached faces. n <= 0 means
// unbounded.
func WithFaceCacheSize(n int) Option {
	return func(o *options) {
		o.faceCacheSize = n
	}
}

// WithColors sets the text and page colours. A nil colour keeps the default.
func WithColors(fg, bg color.Color) Option {
	return func(o *options) {
		if fg != nil {
			o.foreground = fg
		}
		if bg != nil {
			o.background = bg
		}
	}
}
