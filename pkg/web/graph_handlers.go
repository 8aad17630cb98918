package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/graph"
)

func (h *APIHandlers) GetGraph(c fiber.Ctx) error {
	snapshot, err := h.automations.Graph(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(snapshot)
}

// SaveGraph replaces the graph with the snapshot in the body. The body is checked
// against the snapshot JSON schema before any referential checks.
func (h *APIHandlers) SaveGraph(c fiber.Ctx) error {
	snapshot, err := graph.DecodeSnapshot(c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	automation, err := h.automations.SaveGraph(c.Context(), c.Params("id"), snapshot)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(automation.FlowData.Normalize())
}

func (h *APIHandlers) AddNode(c fiber.Ctx) error {
	var req AddNodeRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	return h.applyGraphCommand(c, fiber.StatusCreated, graph.AddNode{
		Kind:        graph.Kind(req.Kind),
		Label:       req.Label,
		Description: req.Description,
		Position:    req.Position,
	})
}

// UpdateNode edits the label and description and/or moves a node.
func (h *APIHandlers) UpdateNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	var req UpdateNodeRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	if req.Label == nil && req.Description == nil && req.Position == nil {
		return badRequest(c, "Nothing to update: send label, description or position")
	}

	response, err := h.automations.ApplyGraphCommand(c.Context(), id, graph.PatchNode{
		NodeID:      nodeID,
		Label:       req.Label,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		if graph.IsReferenceError(err) && !graph.IsMalformedGraph(err) {
			return notFound(c, "node not found")
		}

		return handleServiceError(c, err)
	}

	return c.JSON(response)
}

func (h *APIHandlers) RemoveNode(c fiber.Ctx) error {
	return h.applyGraphCommand(c, fiber.StatusOK, graph.RemoveNode{NodeID: c.Params("nodeId")})
}

func (h *APIHandlers) Connect(c fiber.Ctx) error {
	var req ConnectRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	return h.applyGraphCommand(c, fiber.StatusCreated, graph.Connect{Source: req.Source, Target: req.Target})
}

func (h *APIHandlers) RemoveEdge(c fiber.Ctx) error {
	return h.applyGraphCommand(c, fiber.StatusOK, graph.RemoveEdge{EdgeID: c.Params("edgeId")})
}

func (h *APIHandlers) applyGraphCommand(c fiber.Ctx, status int, cmd graph.Command) error {
	response, err := h.automations.ApplyGraphCommand(c.Context(), c.Params("id"), cmd)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(status).JSON(response)
}
