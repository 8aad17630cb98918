package graph

// Command is a single authoring edit. Commands are applied through Graph.Apply.
type Command interface {
	// Name identifies the command in logs, traces and results.
	Name() string

	apply(g *Graph, result *Result) error
}

// Result describes what a successful command changed.
type Result struct {
	Command      string   `json:"command"`
	NodeID       string   `json:"node_id,omitempty"`
	EdgeID       string   `json:"edge_id,omitempty"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
	Changed      bool     `json:"changed"`
}

// Apply runs cmd against a copy of the graph and adopts the copy only when the command
// succeeds, so a failed command never leaves a partial mutation behind.
func (g *Graph) Apply(cmd Command) (Result, error) {
	next := g.Clone()
	result := Result{Command: cmd.Name()}

	err := cmd.apply(next, &result)
	if err != nil {
		return Result{}, err
	}

	*g = *next

	return result, nil
}

// AddNode adds a node of the given kind.
type AddNode struct {
	Kind        Kind     `json:"kind"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Position    Position `json:"position"`
}

func (AddNode) Name() string { return "add_node" }

func (c AddNode) apply(g *Graph, result *Result) error {
	id, err := g.AddNode(c.Kind, c.Label, c.Description, c.Position)
	if err != nil {
		return err
	}

	result.NodeID = id
	result.Changed = true

	return nil
}

// Connect links two existing nodes.
type Connect struct {
	Source string `json:"source_node_id"`
	Target string `json:"target_node_id"`
}

func (Connect) Name() string { return "connect" }

func (c Connect) apply(g *Graph, result *Result) error {
	id, err := g.Connect(c.Source, c.Target)
	if err != nil {
		return err
	}

	result.EdgeID = id
	result.Changed = true

	return nil
}

// RemoveNode deletes a node with its edges.
type RemoveNode struct {
	NodeID string `json:"node_id"`
}

func (RemoveNode) Name() string { return "remove_node" }

func (c RemoveNode) apply(g *Graph, result *Result) error {
	_, existed := g.Node(c.NodeID)

	result.NodeID = c.NodeID
	result.RemovedEdges = g.RemoveNode(c.NodeID)
	result.Changed = existed

	return nil
}

// RemoveEdge deletes one edge.
type RemoveEdge struct {
	EdgeID string `json:"edge_id"`
}

func (RemoveEdge) Name() string { return "remove_edge" }

func (c RemoveEdge) apply(g *Graph, result *Result) error {
	result.EdgeID = c.EdgeID
	result.Changed = g.RemoveEdge(c.EdgeID)

	return nil
}

// MoveNode changes the layout position of a node.
type MoveNode struct {
	NodeID   string   `json:"node_id"`
	Position Position `json:"position"`
}

func (MoveNode) Name() string { return "move_node" }

func (c MoveNode) apply(g *Graph, result *Result) error {
	result.NodeID = c.NodeID
	result.Changed = g.UpdatePosition(c.NodeID, c.Position)

	return nil
}

// EditNode replaces the label and description of a node.
type EditNode struct {
	NodeID      string `json:"node_id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func (EditNode) Name() string { return "edit_node" }

func (c EditNode) apply(g *Graph, result *Result) error {
	err := g.UpdateNode(c.NodeID, c.Label, c.Description)
	if err != nil {
		return err
	}

	result.NodeID = c.NodeID
	result.Changed = true

	return nil
}

// PatchNode edits and moves a node as one command. Nil fields keep their current value.
type PatchNode struct {
	NodeID      string    `json:"node_id"`
	Label       *string   `json:"label,omitempty"`
	Description *string   `json:"description,omitempty"`
	Position    *Position `json:"position,omitempty"`
}

func (PatchNode) Name() string { return "patch_node" }

func (c PatchNode) apply(g *Graph, result *Result) error {
	node, ok := g.Node(c.NodeID)
	if !ok {
		return &ReferenceError{Op: "edit", NodeID: c.NodeID}
	}

	if c.Label != nil {
		node.Label = *c.Label
	}

	if c.Description != nil {
		node.Description = *c.Description
	}

	err := g.UpdateNode(c.NodeID, node.Label, node.Description)
	if err != nil {
		return err
	}

	if c.Position != nil {
		g.UpdatePosition(c.NodeID, *c.Position)
	}

	result.NodeID = c.NodeID
	result.Changed = true

	return nil
}
