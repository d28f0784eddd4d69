// Package paint is a reference consumer of render trees.
//
// A Painter pulls a tree's nodes through an iterator, resolves each text
// run's family through a FontMap, measures it with HarfBuzz shaping
// (go-text/typesetting) and rasterises it with golang.org/x/image.
//
//	p, err := paint.New(paint.WithWidth(640))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	img, err := p.Paint(tree)
//
// Families not present in the FontMap render with its default, the Go fonts
// unless a YAML map says otherwise (see LoadFontMap).
package paint
