package specialist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/repository"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
)

var escalationKeywords = []string{"urgent", "asap", "immediately", "critical", "emergency", "escalate", "blocked", "outage"}

// EscalationHandler raises the priority of the requester's open work items
// when a request signals urgency.
type EscalationHandler struct {
	deps Dependencies
}

// NewEscalationHandler constructs the handler.
func NewEscalationHandler(deps Dependencies) *EscalationHandler {
	return &EscalationHandler{deps: deps}
}

func (h *EscalationHandler) Name() string                 { return "escalation" }
func (h *EscalationHandler) Specialty() routing.Specialty { return routing.SpecialtyEscalation }
func (h *EscalationHandler) Keywords() []string           { return escalationKeywords }

// CanHandle matches urgency vocabulary or an already high-priority context.
func (h *EscalationHandler) CanHandle(text string, reqCtx domain.RequestContext) bool {
	return containsAnyKeyword(text, escalationKeywords) || strings.EqualFold(reqCtx.Priority, "high")
}

// Execute bumps every open work item owned by the requester one priority
// step and stamps the escalation.
func (h *EscalationHandler) Execute(ctx context.Context, _ string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	items, err := h.deps.Items.ListWithFilter(ctx, repository.WorkItemFilter{
		RequesterID: &reqCtx.UserID,
		Statuses:    []domain.WorkItemStatus{domain.WorkItemStatusOpen, domain.WorkItemStatusInProgress},
		Limit:       200,
	})
	if err != nil {
		return domain.HandlerResult{}, fmt.Errorf("list open work items: %w", err)
	}

	now := time.Now()
	escalated := make([]string, 0, len(items))
	for i := range items {
		item := &items[i]
		oldPriority := item.Priority
		newPriority := nextPriority(oldPriority)
		if newPriority == oldPriority && item.EscalationLevel > 0 {
			continue
		}

		item.Priority = newPriority
		item.EscalationLevel++
		item.EscalatedAt = &now
		if err := h.deps.Items.Update(ctx, item); err != nil {
			return domain.HandlerResult{}, fmt.Errorf("escalate work item %s: %w", item.ID, err)
		}
		escalated = append(escalated, item.ID)

		h.deps.publish(ctx, events.Event{
			Type:       events.EventWorkItemEscalated,
			WorkItemID: item.ID,
			Actor:      events.UserActor(reqCtx.UserID),
			Payload: events.WorkItemEscalatedPayload{
				EscalationLevel: item.EscalationLevel,
				OldPriority:     oldPriority,
				NewPriority:     newPriority,
				AgeSeconds:      int64(now.Sub(item.CreatedAt).Seconds()),
			},
		})
	}

	h.deps.logger().Info("escalation processed",
		zap.String("requester_id", reqCtx.UserID),
		zap.Int("escalated", len(escalated)))

	return domain.HandlerResult{
		Handler: h.Name(),
		Kind:    domain.ResultKindEscalation,
		Success: true,
		Payload: domain.EscalationResultPayload{
			WorkItemIDs: escalated,
		},
	}, nil
}
