package graph

import (
	"encoding/json"
	"slices"
)

// Snapshot is the serialized, storage-ready form of a graph. Its JSON layout is the
// storage contract:
//
//	{"nodes":[{"id","kind","label","description","position":{"x","y"}}],
//	 "edges":[{"id","source_node_id","target_node_id"}]}
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Serialize returns an order-preserving snapshot of the graph.
func (g *Graph) Serialize() Snapshot {
	return Snapshot{
		Nodes: slices.Clone(g.nodes),
		Edges: slices.Clone(g.edges),
	}
}

// MarshalJSON encodes the graph as its snapshot.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Serialize())
}

// IsEmpty reports whether the snapshot holds no nodes and no edges.
func (s Snapshot) IsEmpty() bool {
	return len(s.Nodes) == 0 && len(s.Edges) == 0
}

// Normalize replaces nil lists with empty ones so the snapshot always encodes as arrays.
func (s Snapshot) Normalize() Snapshot {
	if s.Nodes == nil {
		s.Nodes = make([]Node, 0)
	}

	if s.Edges == nil {
		s.Edges = make([]Edge, 0)
	}

	return s
}

// Deserialize rebuilds a graph from a snapshot. It fails with a MalformedGraphError when
// the snapshot breaks any graph invariant, and never returns a partial graph.
func Deserialize(s Snapshot) (*Graph, error) {
	g := New()

	nodeIDs := make(map[string]struct{}, len(s.Nodes))

	for i, n := range s.Nodes {
		if n.ID == "" {
			return nil, malformed("node at index %d has no id", i)
		}

		if _, dup := nodeIDs[n.ID]; dup {
			return nil, malformed("duplicate node id %q", n.ID)
		}

		if !n.Kind.Valid() {
			return nil, &MalformedGraphError{Reason: "node " + n.ID, Err: ErrUnknownKind}
		}

		nodeIDs[n.ID] = struct{}{}
		g.nodes = append(g.nodes, n)
	}

	edgeIDs := make(map[string]struct{}, len(s.Edges))
	pairs := make(map[[2]string]string, len(s.Edges))

	for i, e := range s.Edges {
		if e.ID == "" {
			return nil, malformed("edge at index %d has no id", i)
		}

		if _, dup := edgeIDs[e.ID]; dup {
			return nil, malformed("duplicate edge id %q", e.ID)
		}

		if _, ok := nodeIDs[e.Source]; !ok {
			return nil, &MalformedGraphError{
				Reason: "edge " + e.ID,
				Err:    &ReferenceError{Op: "load", NodeID: e.Source},
			}
		}

		if _, ok := nodeIDs[e.Target]; !ok {
			return nil, &MalformedGraphError{
				Reason: "edge " + e.ID,
				Err:    &ReferenceError{Op: "load", NodeID: e.Target},
			}
		}

		if e.Source == e.Target {
			return nil, &MalformedGraphError{Reason: "edge " + e.ID, Err: &SelfLoopError{NodeID: e.Source}}
		}

		pair := [2]string{e.Source, e.Target}
		if existing, dup := pairs[pair]; dup {
			return nil, &MalformedGraphError{
				Reason: "edge " + e.ID,
				Err:    &DuplicateEdgeError{Source: e.Source, Target: e.Target, ExistingID: existing},
			}
		}

		edgeIDs[e.ID] = struct{}{}
		pairs[pair] = e.ID
		g.edges = append(g.edges, e)
	}

	g.seedSequence()

	return g, nil
}
