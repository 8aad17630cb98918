package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/models"
)

func (h *APIHandlers) GetAutomations(c fiber.Ctx) error {
	req, err := parseListRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.automations.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	items := transformAll(result.Items, h.now(), TransformAutomationResponse)

	return listResponse(c, "automations", items, result, req)
}

func (h *APIHandlers) GetAutomation(c fiber.Ctx) error {
	automation, err := h.automations.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformAutomationResponse(automation, h.now()))
}

func (h *APIHandlers) CreateAutomation(c fiber.Ctx) error {
	var req CreateAutomationRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	automation := &models.Automation{
		Record:        models.Record{OwnerID: req.Owner},
		Name:          req.Name,
		Description:   req.Description,
		AgentID:       req.AgentID,
		IntegrationID: req.IntegrationID,
		Schedule:      req.Schedule,
		Metadata:      req.Metadata,
	}

	if req.FlowData != nil {
		automation.FlowData = *req.FlowData
	}

	created, err := h.automations.Create(c.Context(), automation)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformAutomationResponse(created, h.now()))
}

func (h *APIHandlers) UpdateAutomation(c fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateAutomationRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	// Get existing automation and merge changes (graph managed separately)
	existing, err := h.automations.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.AgentID != nil {
		existing.AgentID = emptyToNil(req.AgentID)
	}

	if req.IntegrationID != nil {
		existing.IntegrationID = emptyToNil(req.IntegrationID)
	}

	if req.Schedule != nil {
		existing.Schedule = *req.Schedule
	}

	if req.Metadata != nil {
		existing.Metadata = req.Metadata
	}

	updated, err := h.automations.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformAutomationResponse(updated, h.now()))
}

func (h *APIHandlers) DeleteAutomation(c fiber.Ctx) error {
	err := h.automations.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleAutomation(c fiber.Ctx) error {
	automation, err := h.automations.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformAutomationResponse(automation, h.now()))
}

func (h *APIHandlers) DuplicateAutomation(c fiber.Ctx) error {
	dup, err := h.automations.Duplicate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformAutomationResponse(dup, h.now()))
}

// emptyToNil lets clients clear a reference by sending an empty string.
func emptyToNil(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}

	return id
}
