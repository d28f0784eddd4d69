package rendertree

// Iterator produces the nodes of one RenderTree in traversal order, each
// exactly once.
//
// Nodes are copied into a caller-supplied buffer, so nothing the caller holds
// depends on the iterator or the tree staying alive.
//
// Example usage:
//
//	it, err := rendertree.Open(tree)
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//
//	var n rendertree.Node
//	for {
//	    ok, err := it.Next(&n)
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    switch n.Kind() {
//	    case rendertree.KindRoot:
//	        // begin document
//	    case rendertree.KindText:
//	        txt, _ := n.Text()
//	        // draw txt
//	    }
//	}
//
// An Iterator must not be used by more than one goroutine at a time.
// Separate iterators over the same tree are independent.
type Iterator struct {
	tree   *RenderTree
	pos    int
	closed bool
}

// Open binds a new iterator to t. It fails with ErrInvalidTree if t is nil or
// released.
func Open(t *RenderTree) (*Iterator, error) {
	if t == nil {
		return nil, ErrInvalidTree
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return nil, ErrInvalidTree
	}
	t.open++
	Logger().Debug("rendertree: iterator opened", "tree", t.id, "open_iterators", t.open)
	return &Iterator{tree: t}, nil
}

// Next copies the next node into *dst and reports true. Once every node has
// been produced it reports false, and keeps doing so on later calls.
//
// *dst is overwritten completely when Next reports true and left untouched
// otherwise. Next fails with ErrNilBuffer if dst is nil and with
// ErrInvalidIterator if the iterator is closed or its tree released.
func (it *Iterator) Next(dst *Node) (bool, error) {
	if it == nil || it.closed {
		return false, ErrInvalidIterator
	}
	if dst == nil {
		return false, ErrNilBuffer
	}

	t := it.tree
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.released {
		return false, ErrInvalidIterator
	}
	if it.pos >= len(t.nodes) {
		return false, nil
	}
	*dst = t.nodes[it.pos]
	it.pos++
	return true, nil
}

// Position returns the number of nodes produced so far.
func (it *Iterator) Position() int {
	if it == nil {
		return 0
	}
	return it.pos
}

// Close releases the iterator. When it is the last iterator of a released
// tree, the tree's storage is dropped. Calling Close again, or on nil, does
// nothing.
func (it *Iterator) Close() {
	if it == nil || it.closed {
		return
	}
	it.closed = true

	t := it.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	t.open--
	Logger().Debug("rendertree: iterator closed", "tree", t.id, "open_iterators", t.open)
	t.dropLocked()
}
