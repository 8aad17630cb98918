package web

import (
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/services"
)

func (h *APIHandlers) GetIntegrations(c fiber.Ctx) error {
	req, err := parseListRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.integrations.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	items := transformAll(result.Items, h.now(), TransformIntegrationResponse)

	return listResponse(c, "integrations", items, result, req)
}

func (h *APIHandlers) GetIntegration(c fiber.Ctx) error {
	integration, err := h.integrations.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformIntegrationResponse(integration, h.now()))
}

func (h *APIHandlers) ConnectIntegration(c fiber.Ctx) error {
	var req ConnectIntegrationRequest
	if detail, ok := h.bind(c, &req); !ok {
		return badRequest(c, detail)
	}

	connected, err := h.integrations.Connect(c.Context(), services.ConnectRequest{
		OwnerID:      req.Owner,
		PlatformID:   req.PlatformID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenExpiry:  req.TokenExpiry,
		ProfileName:  req.ProfileName,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformIntegrationResponse(connected, h.now()))
}

func (h *APIHandlers) DisconnectIntegration(c fiber.Ctx) error {
	err := h.integrations.Disconnect(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ToggleIntegration(c fiber.Ctx) error {
	integration, err := h.integrations.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformIntegrationResponse(integration, h.now()))
}

func (h *APIHandlers) RefreshIntegration(c fiber.Ctx) error {
	var req RefreshIntegrationRequest

	if len(c.Body()) > 0 {
		if detail, ok := h.bind(c, &req); !ok {
			return badRequest(c, detail)
		}
	}

	integration, err := h.integrations.Refresh(c.Context(), c.Params("id"), services.RefreshRequest{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenExpiry:  req.TokenExpiry,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformIntegrationResponse(integration, h.now()))
}
