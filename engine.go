package rendertree

import "io"

// Engine produces the nodes of a render tree from a source document.
//
// Parsing, box generation and layout all live behind this interface. Render
// must return the nodes in traversal order; Build takes ownership of the
// returned slice.
type Engine interface {
	Render(src io.Reader) ([]Node, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(src io.Reader) ([]Node, error)

// Render calls f(src).
func (f EngineFunc) Render(src io.Reader) ([]Node, error) {
	return f(src)
}

// Static returns an Engine that ignores its source and always produces a
// copy of nodes. Useful for fixtures and tests.
func Static(nodes ...Node) Engine {
	return EngineFunc(func(io.Reader) ([]Node, error) {
		out := make([]Node, len(nodes))
		copy(out, nodes)
		return out, nil
	})
}
