package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-triage/internal/api/dto"
	"github.com/spec-kit/helpdesk-triage/internal/auth"
	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-triage/pkg/util"
)

// WorkItemsHandler exposes persisted work items.
type WorkItemsHandler struct {
	items repository.WorkItemRepository
}

// NewWorkItemsHandler constructs handler.
func NewWorkItemsHandler(items repository.WorkItemRepository) *WorkItemsHandler {
	return &WorkItemsHandler{items: items}
}

// List GET /work-items. Callers see their own items; system tokens see all.
func (h *WorkItemsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := repository.WorkItemFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if principal.SubjectType != domain.SubjectTypeSystem {
		filter.RequesterID = &principal.UserID
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.WorkItemStatus{domain.WorkItemStatus(status)}
	}
	if priority := c.Query("priority"); priority != "" {
		filter.Priorities = []domain.Priority{domain.Priority(priority)}
	}
	if kind := c.Query("kind"); kind != "" {
		k := domain.WorkItemKind(kind)
		filter.Kind = &k
	}

	items, err := h.items.ListWithFilter(c.UserContext(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.WorkItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewWorkItemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /work-items/:id.
func (h *WorkItemsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	item, err := h.items.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	if principal.SubjectType != domain.SubjectTypeSystem && item.RequesterID != principal.UserID {
		return apperrors.NewForbidden("not your work item")
	}

	return c.JSON(fiber.Map{"data": dto.NewWorkItemResponse(item)})
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
