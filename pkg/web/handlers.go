// Package web provides HTTP handlers and REST API endpoints for the automation dashboard.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/services"
)

// Services groups the services the API exposes.
type Services struct {
	Agents       *services.Agent
	Automations  *services.Automation
	FAQs         *services.FAQ
	Updates      *services.Update
	Integrations *services.Integration
}

type APIHandlers struct {
	agents       *services.Agent
	automations  *services.Automation
	faqs         *services.FAQ
	updates      *services.Update
	integrations *services.Integration
	validator    *validator.Validate
	now          func() time.Time
}

func NewAPIHandlers(svc Services, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		agents:       svc.Agents,
		automations:  svc.Automations,
		faqs:         svc.FAQs,
		updates:      svc.Updates,
		integrations: svc.Integrations,
		validator:    validator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register mounts every dashboard route on r.
func (h *APIHandlers) Register(r fiber.Router) {
	r.Get("/models", h.GetModels)
	r.Get("/platforms", h.GetPlatforms)
	r.Get("/node-kinds", h.GetNodeKinds)
	r.Get("/health", h.HealthCheck)

	a := r.Group("/agents")
	a.Get("/", h.GetAgents)
	a.Post("/", h.CreateAgent)
	a.Get("/:id", h.GetAgent)
	a.Patch("/:id", h.UpdateAgent)
	a.Delete("/:id", h.DeleteAgent)
	a.Post("/:id/toggle", h.ToggleAgent)
	a.Post("/:id/duplicate", h.DuplicateAgent)

	w := r.Group("/automations")
	w.Get("/", h.GetAutomations)
	w.Post("/", h.CreateAutomation)
	w.Get("/:id", h.GetAutomation)
	w.Patch("/:id", h.UpdateAutomation)
	w.Delete("/:id", h.DeleteAutomation)
	w.Post("/:id/toggle", h.ToggleAutomation)
	w.Post("/:id/duplicate", h.DuplicateAutomation)

	// Graph endpoints:
	w.Get("/:id/graph", h.GetGraph)
	w.Put("/:id/graph", h.SaveGraph)
	w.Post("/:id/graph/nodes", h.AddNode)
	w.Patch("/:id/graph/nodes/:nodeId", h.UpdateNode)
	w.Delete("/:id/graph/nodes/:nodeId", h.RemoveNode)
	w.Post("/:id/graph/edges", h.Connect)
	w.Delete("/:id/graph/edges/:edgeId", h.RemoveEdge)

	f := r.Group("/faqs")
	f.Get("/", h.GetFAQs)
	f.Post("/", h.CreateFAQ)
	f.Get("/:id", h.GetFAQ)
	f.Put("/:id", h.UpdateFAQ)
	f.Delete("/:id", h.DeleteFAQ)
	f.Post("/:id/toggle", h.ToggleFAQ)

	u := r.Group("/updates")
	u.Get("/", h.GetUpdates)
	u.Post("/", h.CreateUpdate)
	u.Get("/:id", h.GetUpdate)
	u.Put("/:id", h.UpdateUpdate)
	u.Delete("/:id", h.DeleteUpdate)
	u.Post("/:id/toggle", h.ToggleUpdate)
	u.Post("/:id/publish", h.PublishUpdate)

	i := r.Group("/integrations")
	i.Get("/", h.GetIntegrations)
	i.Post("/", h.ConnectIntegration)
	i.Get("/:id", h.GetIntegration)
	i.Delete("/:id", h.DisconnectIntegration)
	i.Post("/:id/toggle", h.ToggleIntegration)
	i.Post("/:id/refresh", h.RefreshIntegration)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.agents.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowdesk API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Flowdesk API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": h.now(),
	})
}

func (h *APIHandlers) GetModels(c fiber.Ctx) error {
	return c.JSON(h.agents.Models())
}

func (h *APIHandlers) GetPlatforms(c fiber.Ctx) error {
	return c.JSON(h.integrations.Platforms())
}

// GetNodeKinds returns the render description of every node kind.
func (h *APIHandlers) GetNodeKinds(c fiber.Ctx) error {
	return c.JSON(graph.RenderAll())
}

// parseListRequest parses query parameters shared by every listing.
func parseListRequest(c fiber.Ctx) (services.ListRequest, error) {
	req := services.ListRequest{}

	// Parse pagination parameters
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return req, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return req, err
		}

		req.Offset = offset
	}

	// Parse filtering parameters
	req.OwnerID = c.Query("owner_id")
	req.AgentID = c.Query("agent_id")

	if activeStr := c.Query("is_active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return req, err
		}

		req.IsActive = &active
	}

	// Parse sorting parameters
	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

// listResponse returns a page of items with pagination metadata.
func listResponse[T any, D any](c fiber.Ctx, key string, items []T, result *persistence.ListResult[D], req services.ListRequest) error {
	limit := req.Limit
	if limit <= 0 {
		limit = persistence.DefaultLimit
	}

	if limit > persistence.MaxLimit {
		limit = persistence.MaxLimit
	}

	return c.JSON(fiber.Map{
		key:             items,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// bind decodes and validates a JSON body. On failure it returns the problem detail.
func (h *APIHandlers) bind(c fiber.Ctx, req any) (string, bool) {
	if err := c.Bind().JSON(req); err != nil {
		return "Invalid JSON format", false
	}

	if err := h.validator.Struct(req); err != nil {
		return err.Error(), false
	}

	return "", true
}
