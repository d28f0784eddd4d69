// Package rendertree provides the node model and iteration contract of a
// render tree.
//
// # Overview
//
// A render tree is the ordered list of visual elements produced from a parsed
// document. Producing it (HTML parsing, styling, box generation) is the job of
// an Engine; this package owns what a consumer such as a painter depends on:
//
//   - Node: a tagged value, either the Root marker or a Text run with font
//     family, size and weight
//   - RenderTree: the engine output, owned by the caller until Release
//   - Iterator: a pull-based cursor that copies nodes into caller storage
//
// # Quick Start
//
//	tree, err := rendertree.Build(htmlengine.New(), strings.NewReader(doc))
//	if err != nil {
//	    return err
//	}
//	defer tree.Release()
//
//	for n, err := range tree.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(n)
//	}
//
// # Ownership
//
// Release and Close are idempotent. Releasing a tree invalidates its
// iterators: their next pull reports ErrInvalidIterator instead of touching
// freed storage. Storage itself is dropped only once every iterator bound to
// the tree has been closed.
//
// Reading a text payload from a Root node fails with ErrWrongVariant.
package rendertree
