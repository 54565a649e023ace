package specialist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
	"github.com/spec-kit/helpdesk-triage/internal/rules"
)

var hardwareKeywords = []string{"laptop", "keyboard", "monitor", "mouse", "printer", "screen", "battery", "charger", "dock", "headset", "hardware"}

// HardwareHandler opens hardware tickets from free-form reports.
type HardwareHandler struct {
	deps Dependencies
}

// NewHardwareHandler constructs the handler.
func NewHardwareHandler(deps Dependencies) *HardwareHandler {
	return &HardwareHandler{deps: deps}
}

func (h *HardwareHandler) Name() string                 { return "hardware_support" }
func (h *HardwareHandler) Specialty() routing.Specialty { return routing.SpecialtyHardware }
func (h *HardwareHandler) Keywords() []string           { return hardwareKeywords }

func (h *HardwareHandler) CanHandle(text string, _ domain.RequestContext) bool {
	return containsAnyKeyword(text, hardwareKeywords)
}

// Execute runs automated categorization and opens the ticket.
func (h *HardwareHandler) Execute(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	return createTicket(ctx, h.deps, h.Name(), text, reqCtx)
}

// createTicket is shared by the ticket-producing handlers: category and
// priority come from the rules engine, never from the handler itself.
func createTicket(ctx context.Context, deps Dependencies, handlerName, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	category, priority := rules.CategorizeTicket(text)

	item := &domain.WorkItem{
		ExternalKey: generateItemKey(),
		Kind:        domain.WorkItemKindTicket,
		RequesterID: reqCtx.UserID,
		Title:       titlePreview(text, 120),
		Description: strings.TrimSpace(text),
		Category:    category,
		Priority:    priority,
		Status:      domain.WorkItemStatusOpen,
	}

	if err := deps.Items.Create(ctx, item); err != nil {
		return domain.HandlerResult{}, fmt.Errorf("create ticket: %w", err)
	}

	deps.logger().Info("ticket created",
		zap.String("handler", handlerName),
		zap.String("work_item_id", item.ID),
		zap.String("category", string(category)),
		zap.String("priority", string(priority)))

	deps.publish(ctx, events.Event{
		Type:       events.EventWorkItemCreated,
		WorkItemID: item.ID,
		Actor:      events.UserActor(reqCtx.UserID),
		Payload: events.WorkItemCreatedPayload{
			Kind:     item.Kind,
			Category: category,
			Priority: priority,
			Title:    item.Title,
		},
	})

	return domain.HandlerResult{
		Handler: handlerName,
		Kind:    domain.ResultKindTicket,
		Success: true,
		Payload: domain.TicketResultPayload{
			WorkItemID: item.ID,
			Category:   category,
			Priority:   priority,
		},
	}, nil
}
