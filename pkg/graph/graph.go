// Package graph models the node/edge workflow graph that an automation is authored as.
//
// A Graph keeps its invariants total: every edge endpoint exists, node and edge ids are
// unique, and a rejected edit leaves the graph exactly as it was.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// DefaultDescription is stored for nodes added without a description.
const DefaultDescription = "No description"

// Kind is the semantic role of a node.
type Kind string

const (
	KindTrigger   Kind = "trigger"   // Entry condition
	KindAction    Kind = "action"    // Effect
	KindCondition Kind = "condition" // Branch
	KindOutput    Kind = "output"    // Terminal effect
)

// Kinds lists every node kind in display order.
func Kinds() []Kind {
	return []Kind{KindTrigger, KindAction, KindCondition, KindOutput}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds(), k)
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}

	return kind, nil
}

// Position is a layout coordinate. It has no semantic effect.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a single step of an automation flow.
type Node struct {
	ID          string   `json:"id"          yaml:"id"`
	Kind        Kind     `json:"kind"        yaml:"kind"`
	Label       string   `json:"label"       yaml:"label"`
	Description string   `json:"description" yaml:"description"`
	Position    Position `json:"position"    yaml:"position"`
}

// Edge is a directed connection: Source feeds Target.
type Edge struct {
	ID     string `json:"id"             yaml:"id"`
	Source string `json:"source_node_id" yaml:"source_node_id"`
	Target string `json:"target_node_id" yaml:"target_node_id"`
}

// Graph is the aggregate root of nodes and edges. The zero value is not usable; use New.
type Graph struct {
	nodes []Node
	edges []Edge
	seq   int // Last numeric node id handed out
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make([]Node, 0),
		edges: make([]Edge, 0),
	}
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}

	return g.nodes[i], true
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id string) (Edge, bool) {
	i := g.edgeIndex(id)
	if i < 0 {
		return Edge{}, false
	}

	return g.edges[i], true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	return &Graph{
		nodes: slices.Clone(g.nodes),
		edges: slices.Clone(g.edges),
		seq:   g.seq,
	}
}

// AddNode appends a node and returns its freshly assigned id.
func (g *Graph) AddNode(kind Kind, label, description string, position Position) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if label == "" {
		return "", ErrLabelRequired
	}

	if description == "" {
		description = DefaultDescription
	}

	id := g.nextNodeID()
	g.nodes = append(g.nodes, Node{
		ID:          id,
		Kind:        kind,
		Label:       label,
		Description: description,
		Position:    position,
	})

	return id, nil
}

// Connect creates a directed edge from source to target and returns its id.
func (g *Graph) Connect(source, target string) (string, error) {
	if g.nodeIndex(source) < 0 {
		return "", &ReferenceError{Op: "connect", NodeID: source}
	}

	if g.nodeIndex(target) < 0 {
		return "", &ReferenceError{Op: "connect", NodeID: target}
	}

	if source == target {
		return "", &SelfLoopError{NodeID: source}
	}

	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			return "", &DuplicateEdgeError{Source: source, Target: target, ExistingID: e.ID}
		}
	}

	id := g.nextEdgeID(source, target)
	g.edges = append(g.edges, Edge{ID: id, Source: source, Target: target})

	return id, nil
}

// RemoveNode deletes a node and every edge touching it. It returns the ids of the
// removed edges. Removing an absent node is a no-op.
func (g *Graph) RemoveNode(id string) []string {
	i := g.nodeIndex(id)
	if i < 0 {
		return nil
	}

	g.nodes = slices.Delete(g.nodes, i, i+1)

	var removed []string

	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if e.Source == id || e.Target == id {
			removed = append(removed, e.ID)

			return true
		}

		return false
	})

	return removed
}

// RemoveEdge deletes a single edge. Removing an absent edge is a no-op.
func (g *Graph) RemoveEdge(id string) bool {
	i := g.edgeIndex(id)
	if i < 0 {
		return false
	}

	g.edges = slices.Delete(g.edges, i, i+1)

	return true
}

// UpdatePosition moves a node. Unknown ids are ignored.
func (g *Graph) UpdatePosition(id string, position Position) bool {
	i := g.nodeIndex(id)
	if i < 0 {
		return false
	}

	g.nodes[i].Position = position

	return true
}

// UpdateNode replaces the label and description of a node.
func (g *Graph) UpdateNode(id, label, description string) error {
	i := g.nodeIndex(id)
	if i < 0 {
		return &ReferenceError{Op: "edit", NodeID: id}
	}

	if label == "" {
		return &NodeError{NodeID: id, Err: ErrLabelRequired}
	}

	g.nodes[i].Label = label
	g.nodes[i].Description = description

	return nil
}

// Validate checks that the graph can back an active automation: it has nodes, at least
// one trigger, and every node carries a label. Structural invariants are always held
// and are not rechecked here.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return ErrEmptyGraph
	}

	var (
		errs       []error
		hasTrigger bool
	)

	for _, n := range g.nodes {
		if n.Kind == KindTrigger {
			hasTrigger = true
		}

		if n.Label == "" {
			errs = append(errs, &NodeError{NodeID: n.ID, Err: ErrLabelRequired})
		}
	}

	if !hasTrigger {
		errs = append([]error{ErrTriggerRequired}, errs...)
	}

	return errors.Join(errs...)
}

func (g *Graph) nodeIndex(id string) int {
	return slices.IndexFunc(g.nodes, func(n Node) bool { return n.ID == id })
}

func (g *Graph) edgeIndex(id string) int {
	return slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
}

// nextNodeID hands out the next value of the monotonic counter, skipping any id already
// taken by a node loaded from a snapshot.
func (g *Graph) nextNodeID() string {
	for {
		g.seq++

		id := strconv.Itoa(g.seq)
		if g.nodeIndex(id) < 0 {
			return id
		}
	}
}

func (g *Graph) nextEdgeID(source, target string) string {
	base := "e" + source + "-" + target
	id := base

	for n := 2; g.edgeIndex(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}

	return id
}

// seedSequence moves the counter past every numeric node id.
func (g *Graph) seedSequence() {
	for _, n := range g.nodes {
		if v, err := strconv.Atoi(n.ID); err == nil && v > g.seq {
			g.seq = v
		}
	}
}
