package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/models"
)

func (h *APIHandlers) GetUpdates(c fiber.Ctx) error {
	req, err := parseListRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.updates.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	items := transformAll(result.Items, h.now(), TransformUpdateResponse)

	return listResponse(c, "updates", items, result, req)
}

func (h *APIHandlers) GetUpdate(c fiber.Ctx) error {
	update, err := h.updates.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformUpdateResponse(update, h.now()))
}

func (h *APIHandlers) CreateUpdate(c fiber.Ctx) error {
	var req UpdateRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	created, err := h.updates.Create(c.Context(), req.model())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformUpdateResponse(created, h.now()))
}

func (h *APIHandlers) UpdateUpdate(c fiber.Ctx) error {
	var req UpdateRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	updated, err := h.updates.Update(c.Context(), c.Params("id"), req.model())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformUpdateResponse(updated, h.now()))
}

func (h *APIHandlers) DeleteUpdate(c fiber.Ctx) error {
	err := h.updates.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleUpdate(c fiber.Ctx) error {
	update, err := h.updates.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformUpdateResponse(update, h.now()))
}

func (h *APIHandlers) PublishUpdate(c fiber.Ctx) error {
	update, err := h.updates.Publish(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformUpdateResponse(update, h.now()))
}

func (r UpdateRequest) model() *models.Update {
	return &models.Update{
		Record:      models.Record{OwnerID: r.Owner},
		Title:       r.Title,
		Content:     r.Content,
		Category:    r.Category,
		ScheduledAt: r.ScheduledAt,
	}
}
