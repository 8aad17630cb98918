package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/models"
)

func (h *APIHandlers) GetAgents(c fiber.Ctx) error {
	req, err := parseListRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.agents.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return listResponse(c, "agents", result.Items, result, req)
}

func (h *APIHandlers) GetAgent(c fiber.Ctx) error {
	agent, err := h.agents.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(agent)
}

func (h *APIHandlers) CreateAgent(c fiber.Ctx) error {
	var req CreateAgentRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	temperature := models.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	agent := &models.Agent{
		Record:       models.Record{OwnerID: req.Owner},
		Name:         req.Name,
		Description:  req.Description,
		Instructions: req.Instructions,
		Model:        req.Model,
		Temperature:  temperature,
		Metadata:     req.Metadata,
	}

	created, err := h.agents.Create(c.Context(), agent)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateAgent(c fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateAgentRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	// Get existing agent and merge changes
	existing, err := h.agents.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Instructions != nil {
		existing.Instructions = *req.Instructions
	}

	if req.Model != nil {
		existing.Model = *req.Model
	}

	if req.Temperature != nil {
		existing.Temperature = *req.Temperature
	}

	if req.Metadata != nil {
		existing.Metadata = req.Metadata
	}

	updated, err := h.agents.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteAgent(c fiber.Ctx) error {
	err := h.agents.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleAgent(c fiber.Ctx) error {
	agent, err := h.agents.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(agent)
}

func (h *APIHandlers) DuplicateAgent(c fiber.Ctx) error {
	dup, err := h.agents.Duplicate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dup)
}
