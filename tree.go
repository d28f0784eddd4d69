package rendertree

import (
	"io"
	"iter"
	"sync"

	"github.com/google/uuid"
)

// RenderTree is an ordered, engine-populated sequence of nodes.
//
// The holder of a *RenderTree owns it from Build until Release. Nodes are
// only reachable through an Iterator; there is no indexed access.
//
// RenderTree is safe for concurrent use: any number of iterators may pull
// from it at once, and Release waits for pulls in progress.
type RenderTree struct {
	id   uuid.UUID
	name string

	// mu guards every field below. Iterators hold the read lock for the
	// duration of a single pull.
	mu       sync.RWMutex
	nodes    []Node
	open     int // iterators bound and not yet closed
	released bool
}

// Build runs eng over src and returns the resulting tree.
//
// The engine output is validated: it must be non-empty, start with the root
// marker, contain no other root, and hold only valid text payloads. Any
// failure, from the engine or from validation, is a *ConstructionError and
// no tree is returned.
func Build(eng Engine, src io.Reader, opts ...Option) (*RenderTree, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if eng == nil {
		return nil, constructionFailed(o.name, -1, ErrNilEngine)
	}

	nodes, err := eng.Render(src)
	if err != nil {
		return nil, constructionFailed(o.name, -1, err)
	}
	if idx, err := validateNodes(nodes, o.nodeLimit); err != nil {
		return nil, constructionFailed(o.name, idx, err)
	}

	t := &RenderTree{
		id:    uuid.New(),
		name:  o.name,
		nodes: nodes,
	}
	Logger().Debug("rendertree: built",
		"tree", t.id, "name", t.name, "nodes", len(nodes))
	return t, nil
}

func constructionFailed(name string, idx int, err error) error {
	Logger().Warn("rendertree: construction failed",
		"name", name, "index", idx, "err", err)
	return &ConstructionError{Tree: name, Index: idx, Err: err}
}

// validateNodes returns the index of the first offending node, or -1 when the
// failure concerns the sequence as a whole.
func validateNodes(nodes []Node, limit int) (int, error) {
	if len(nodes) == 0 {
		return -1, ErrEmptyTree
	}
	if limit > 0 && len(nodes) > limit {
		return limit, ErrNodeLimit
	}
	if !nodes[0].IsRoot() {
		return 0, ErrMissingRoot
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i].IsRoot() {
			return i, ErrExtraRoot
		}
		if err := nodes[i].validate(); err != nil {
			return i, err
		}
	}
	return -1, nil
}

// ID returns the identifier assigned at Build.
func (t *RenderTree) ID() uuid.UUID {
	return t.id
}

// Name returns the label given with WithName.
func (t *RenderTree) Name() string {
	return t.name
}

// Released reports whether Release has been called. A nil tree counts as
// released.
func (t *RenderTree) Released() bool {
	if t == nil {
		return true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.released
}

// OpenIterators returns the number of iterators bound to t and not closed.
func (t *RenderTree) OpenIterators() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.open
}

// Release ends the caller's ownership of t.
//
// After Release, Open fails with ErrInvalidTree and every iterator still
// bound to t reports ErrInvalidIterator on its next pull. Node storage is
// dropped once no iterator remains open. Release blocks while a pull is in
// progress. Calling Release again, or on nil, does nothing.
func (t *RenderTree) Release() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return
	}
	t.released = true
	Logger().Debug("rendertree: released", "tree", t.id, "open_iterators", t.open)
	t.dropLocked()
}

// dropLocked frees node storage once the tree is released and unreferenced.
// Caller must hold t.mu for writing.
func (t *RenderTree) dropLocked() {
	if !t.released || t.open > 0 || t.nodes == nil {
		return
	}
	t.nodes = nil
	Logger().Debug("rendertree: storage dropped", "tree", t.id)
}

// All returns a range-over-func view of the tree's nodes in traversal order.
// Each range statement opens its own iterator and closes it when the loop
// ends. A failure to open or pull is yielded once as the error, after which
// the sequence stops.
//
//	for n, err := range tree.All() {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
func (t *RenderTree) All() iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		it, err := Open(t)
		if err != nil {
			yield(Node{}, err)
			return
		}
		defer it.Close()

		var n Node
		for {
			ok, err := it.Next(&n)
			if err != nil {
				yield(Node{}, err)
				return
			}
			if !ok || !yield(n, nil) {
				return
			}
		}
	}
}
