package surface

import (
	"errors"
	"fmt"
)

// ErrNoTriangles is returned by closest point queries on an empty surface.
var ErrNoTriangles = errors.New("surface has no triangles")

// TopologyError reports connectivity that cannot form a triangle surface.
// It is only returned from construction; no mesh is produced alongside it.
type TopologyError struct {
	Face   int // -1 when the problem is not tied to one face
	Reason string
	Err    error
}

func (e *TopologyError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Face >= 0 {
		return fmt.Sprintf("topology error: face %d: %s", e.Face, msg)
	}
	return "topology error: " + msg
}

func (e *TopologyError) Unwrap() error { return e.Err }

// IndexError reports an out-of-range vertex or triangle index.
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error: %s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func checkIndex(kind string, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Kind: kind, Index: index, Len: length}
	}
	return nil
}

// DegenerateGeometryError reports a triangle whose frame cannot be built
// because it has no area.
type DegenerateGeometryError struct {
	Triangle int
	Err      error
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("triangle %d: %v", e.Triangle, e.Err)
}

func (e *DegenerateGeometryError) Unwrap() error { return e.Err }

// CollaboratorError wraps a failure reported by the Source.
type CollaboratorError struct {
	Op     string
	Handle string
	Err    error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Handle, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
