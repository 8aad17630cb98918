package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The typed errors below unwrap to them.
var (
	ErrReference      = errors.New("reference error")
	ErrMalformedGraph = errors.New("malformed graph")
	ErrDuplicateEdge  = errors.New("duplicate edge")
	ErrSelfLoop       = errors.New("self loop")

	ErrLabelRequired = errors.New("node label is required")
	ErrUnknownKind   = errors.New("unknown node kind")

	// Activation errors.
	ErrEmptyGraph      = errors.New("graph has no nodes")
	ErrTriggerRequired = errors.New("graph must have at least one trigger node")
)

// ReferenceError reports an operation naming a node that is not in the graph.
type ReferenceError struct {
	Op     string // Operation being performed (e.g., "connect", "edit")
	NodeID string // The id that could not be resolved
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: node %q does not exist", e.Op, e.NodeID)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReference
}

// DuplicateEdgeError reports a connect between two nodes that are already connected
// in the same direction.
type DuplicateEdgeError struct {
	Source     string
	Target     string
	ExistingID string
}

func (e *DuplicateEdgeError) Error() string {
	return fmt.Sprintf("edge %s -> %s already exists as %s", e.Source, e.Target, e.ExistingID)
}

func (e *DuplicateEdgeError) Unwrap() error {
	return ErrDuplicateEdge
}

// SelfLoopError reports a connect from a node to itself.
type SelfLoopError struct {
	NodeID string
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("node %q cannot be connected to itself", e.NodeID)
}

func (e *SelfLoopError) Unwrap() error {
	return ErrSelfLoop
}

// MalformedGraphError reports a snapshot that violates the graph invariants on load.
type MalformedGraphError struct {
	Reason string
	Err    error // Optional underlying cause
}

func (e *MalformedGraphError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedGraph, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s: %s", ErrMalformedGraph, e.Reason)
}

func (e *MalformedGraphError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedGraph as well as the wrapped cause.
func (e *MalformedGraphError) Is(target error) bool {
	return target == ErrMalformedGraph
}

// NodeError attaches a node id to a validation failure.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) *MalformedGraphError {
	return &MalformedGraphError{Reason: fmt.Sprintf(format, args...)}
}

// IsReferenceError checks if an error reports a missing node.
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrReference)
}

// IsMalformedGraph checks if an error reports a snapshot that failed to load.
func IsMalformedGraph(err error) bool {
	return errors.Is(err, ErrMalformedGraph)
}

// IsDuplicateEdge checks if an error reports an already existing edge.
func IsDuplicateEdge(err error) bool {
	return errors.Is(err, ErrDuplicateEdge)
}
