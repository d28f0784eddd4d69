package rendertree

import (
	"errors"
	"fmt"
)

// Sentinel errors for the rendertree package.
var (
	// ErrConstruction matches every error returned by Build.
	ErrConstruction = errors.New("rendertree: construction failed")

	// ErrInvalidTree is returned when an operation needs a live tree and gets
	// a nil or released one.
	ErrInvalidTree = errors.New("rendertree: invalid tree")

	// ErrInvalidIterator is returned by Next on a closed iterator or on an
	// iterator whose tree has been released.
	ErrInvalidIterator = errors.New("rendertree: invalid iterator")

	// ErrWrongVariant is returned when a payload accessor does not match the
	// node's kind.
	ErrWrongVariant = errors.New("rendertree: wrong node variant")

	// ErrNilBuffer is returned by Next when the destination node is nil.
	ErrNilBuffer = errors.New("rendertree: nil node buffer")

	// ErrInvalidText is returned when a text payload fails validation.
	ErrInvalidText = errors.New("rendertree: invalid text payload")
)

// Build validation causes. They are wrapped in a *ConstructionError.
var (
	ErrNilEngine   = errors.New("rendertree: nil engine")
	ErrEmptyTree   = errors.New("rendertree: engine produced no nodes")
	ErrMissingRoot = errors.New("rendertree: first node is not the root")
	ErrExtraRoot   = errors.New("rendertree: root node after the first position")
	ErrNodeLimit   = errors.New("rendertree: node limit exceeded")
)

// ConstructionError is returned by Build when the engine cannot produce a
// tree or the produced nodes are rejected. No tree exists when it is returned.
type ConstructionError struct {
	// Tree is the name given with WithName, if any.
	Tree string
	// Index is the offending node position, or -1 when the failure is not
	// tied to a node.
	Index int
	// Err is the underlying cause.
	Err error
}

func (e *ConstructionError) Error() string {
	msg := "rendertree: construction failed"
	if e.Tree != "" {
		msg += fmt.Sprintf(" for %q", e.Tree)
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at node %d", e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Is reports ErrConstruction as a match so callers can test any Build
// failure with errors.Is.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}
