package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/models"
)

func (h *APIHandlers) GetFAQs(c fiber.Ctx) error {
	req, err := parseListRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.faqs.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return listResponse(c, "faqs", result.Items, result, req)
}

func (h *APIHandlers) GetFAQ(c fiber.Ctx) error {
	faq, err := h.faqs.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(faq)
}

func (h *APIHandlers) CreateFAQ(c fiber.Ctx) error {
	var req FAQRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	created, err := h.faqs.Create(c.Context(), req.model())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateFAQ(c fiber.Ctx) error {
	var req FAQRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	updated, err := h.faqs.Update(c.Context(), c.Params("id"), req.model())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteFAQ(c fiber.Ctx) error {
	err := h.faqs.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleFAQ(c fiber.Ctx) error {
	faq, err := h.faqs.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(faq)
}

func (r FAQRequest) model() *models.FAQ {
	return &models.FAQ{
		Record:   models.Record{OwnerID: r.Owner},
		Question: r.Question,
		Answer:   r.Answer,
		Keywords: models.ParseKeywords(r.Keywords),
		AgentID:  emptyToNil(r.AgentID),
		Category: r.Category,
	}
}
