package paint

import (
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/rendertree"
	"github.com/gogpu/rendertree/htmlengine"
)

func newPainter(t *testing.T, opts ...Option) *Painter {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func htmlTree(t *testing.T, doc string) *rendertree.RenderTree {
	t.Helper()
	tree, err := htmlengine.Build(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("htmlengine.Build() = %v", err)
	}
	t.Cleanup(tree.Release)
	return tree
}

func TestLayout(t *testing.T) {
	p := newPainter(t, WithWidth(400), WithMargin(10))
	tree := htmlTree(t, `<html><body><h1>heading1</h1><p>body copy</p><h6>small</h6></body></html>`)

	l, err := p.Layout(tree)
	if err != nil {
		t.Fatalf("Layout() = %v", err)
	}
	if len(l.Runs) != 3 {
		t.Fatalf("len(Runs) = %d, want 3", len(l.Runs))
	}
	if l.Width != 400 {
		t.Errorf("Width = %d, want 400", l.Width)
	}

	wantValues := []string{"heading1", "body copy", "small"}
	prev := 0.0
	for i, r := range l.Runs {
		if r.Text.Value != wantValues[i] {
			t.Errorf("Runs[%d].Text.Value = %q, want %q", i, r.Text.Value, wantValues[i])
		}
		if r.X != 10 {
			t.Errorf("Runs[%d].X = %v, want 10", i, r.X)
		}
		if r.Width <= 0 {
			t.Errorf("Runs[%d].Width = %v, want > 0", i, r.Width)
		}
		if r.Ascent <= 0 {
			t.Errorf("Runs[%d].Ascent = %v, want > 0", i, r.Ascent)
		}
		if r.Baseline <= prev {
			t.Errorf("Runs[%d].Baseline = %v, not below %v", i, r.Baseline, prev)
		}
		prev = r.Baseline
	}
	if float64(l.Height) < prev {
		t.Errorf("Height = %d, above last baseline %v", l.Height, prev)
	}
	if !(l.Runs[0].Ascent > l.Runs[2].Ascent) {
		t.Errorf("h1 ascent %v not larger than h6 ascent %v", l.Runs[0].Ascent, l.Runs[2].Ascent)
	}
	if tree.OpenIterators() != 0 {
		t.Errorf("OpenIterators() = %d after Layout", tree.OpenIterators())
	}
}

func TestLayoutBoldIsWider(t *testing.T) {
	p := newPainter(t)
	tree := htmlTree(t, `<html><body>`+
		`<p style="font-weight: bold">Wide Glyphs</p>`+
		`<p>Wide Glyphs</p></body></html>`)

	l, err := p.Layout(tree)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Runs) != 2 {
		t.Fatalf("len(Runs) = %d, want 2", len(l.Runs))
	}
	if !l.Runs[0].Text.Bold || l.Runs[1].Text.Bold {
		t.Fatalf("unexpected weights: %+v", l.Runs)
	}
	if l.Runs[0].Width <= l.Runs[1].Width {
		t.Errorf("bold width %v <= regular width %v", l.Runs[0].Width, l.Runs[1].Width)
	}
}

func TestLayoutRootOnly(t *testing.T) {
	p := newPainter(t, WithMargin(5), WithSpacing(0))
	tree, err := rendertree.Build(rendertree.Static(rendertree.Root()), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Release()

	l, err := p.Layout(tree)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Runs) != 0 {
		t.Errorf("len(Runs) = %d, want 0", len(l.Runs))
	}
	if l.Height != 10 {
		t.Errorf("Height = %d, want 10", l.Height)
	}
}

func TestLayoutReleasedTree(t *testing.T) {
	p := newPainter(t)
	tree := htmlTree(t, `<html><body><h1>x</h1></body></html>`)
	tree.Release()

	if _, err := p.Layout(tree); !errors.Is(err, rendertree.ErrInvalidTree) {
		t.Errorf("Layout(released) = %v, want ErrInvalidTree", err)
	}
	if _, err := p.Paint(tree); !errors.Is(err, rendertree.ErrInvalidTree) {
		t.Errorf("Paint(released) = %v, want ErrInvalidTree", err)
	}
}

func TestPaint(t *testing.T) {
	bg := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	p := newPainter(t, WithWidth(320), WithColors(color.Black, bg))
	tree := htmlTree(t, `<html><body><h1>heading1</h1></body></html>`)

	img, err := p.Paint(tree)
	if err != nil {
		t.Fatalf("Paint() = %v", err)
	}
	l, err := p.Layout(tree)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != l.Height {
		t.Errorf("bounds = %v, want 320x%d", b, l.Height)
	}
	if got := img.RGBAAt(0, 0); got != bg {
		t.Errorf("corner pixel = %v, want background %v", got, bg)
	}

	inked := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestNilColorsKeepDefaults(t *testing.T) {
	p := newPainter(t, WithColors(nil, nil))
	tree := htmlTree(t, `<html><body><p>x</p></body></html>`)

	img, err := p.Paint(tree)
	if err != nil {
		t.Fatalf("Paint() = %v", err)
	}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if got := img.RGBAAt(0, 0); got != white {
		t.Errorf("corner pixel = %v, want %v", got, white)
	}
}

func TestFaceCacheEviction(t *testing.T) {
	p := newPainter(t, WithFaceCacheSize(1))
	tree := htmlTree(t, `<html><body><h1>a</h1><h2>b</h2><h3>c</h3></body></html>`)

	if _, err := p.Layout(tree); err != nil {
		t.Fatal(err)
	}
	if got := p.faces.Len(); got != 1 {
		t.Errorf("faces.Len() = %d, want 1", got)
	}
	if got := p.faces.Evictions(); got != 2 {
		t.Errorf("faces.Evictions() = %d, want 2", got)
	}
}

func TestPainterConcurrent(t *testing.T) {
	p := newPainter(t)
	tree := htmlTree(t, `<html><body><h1>heading1</h1><p>body</p></body></html>`)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Paint(tree); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
