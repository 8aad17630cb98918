package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/services"
)

func problem(c fiber.Ctx, status int, problemType, detail string) error {
	p := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(status).JSON(p)
}

func badRequest(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusBadRequest, "validation_error", detail)
}

func notFound(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusNotFound, "not_found", detail)
}

func internalError(c fiber.Ctx, err error) error {
	p := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(p)
}

// handleServiceError provides typed error handling for service and graph errors.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case services.IsConflictError(err):
		return problem(c, fiber.StatusConflict, "conflict", err.Error())

	// Checked before the edit errors it wraps.
	case graph.IsMalformedGraph(err):
		return problem(c, fiber.StatusUnprocessableEntity, "malformed_graph", err.Error())

	case graph.IsDuplicateEdge(err):
		return problem(c, fiber.StatusConflict, "duplicate_edge", err.Error())

	case graph.IsReferenceError(err):
		return problem(c, fiber.StatusUnprocessableEntity, "reference_error", err.Error())

	case errors.Is(err, graph.ErrSelfLoop):
		return problem(c, fiber.StatusUnprocessableEntity, "self_loop", err.Error())

	case errors.Is(err, graph.ErrLabelRequired), errors.Is(err, graph.ErrUnknownKind):
		return badRequest(c, err.Error())

	case persistence.IsNotFound(err):
		return notFound(c, notFoundDetail(err))

	default:
		// Log unexpected errors but don't expose details
		return internalError(c, err)
	}
}

func notFoundDetail(err error) string {
	for _, sentinel := range []error{
		persistence.ErrAgentNotFound,
		persistence.ErrAutomationNotFound,
		persistence.ErrFAQNotFound,
		persistence.ErrUpdateNotFound,
		persistence.ErrIntegrationNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return persistence.ErrNotFound.Error()
}
