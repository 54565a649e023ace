package specialist

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
)

var accessKeywords = []string{"access", "permission", "grant", "account", "license"}

var resourcePattern = regexp.MustCompile(`(?i)\b(?:access|permission)s?\s+(?:to|for)\s+([\w .\-]+)`)

// AccessHandler materializes access requests, runs the risk assessment, and
// auto-approves routine low-risk usage.
type AccessHandler struct {
	deps Dependencies
}

// NewAccessHandler constructs the handler.
func NewAccessHandler(deps Dependencies) *AccessHandler {
	return &AccessHandler{deps: deps}
}

func (h *AccessHandler) Name() string                 { return "access_request" }
func (h *AccessHandler) Specialty() routing.Specialty { return routing.SpecialtyAccess }
func (h *AccessHandler) Keywords() []string           { return accessKeywords }

// CanHandle matches any access vocabulary in the request text.
func (h *AccessHandler) CanHandle(text string, _ domain.RequestContext) bool {
	return containsAnyKeyword(text, accessKeywords)
}

// Execute creates the access-request work item. Auto-approved requests are
// resolved immediately; everything else stays open for human review.
func (h *AccessHandler) Execute(ctx context.Context, text string, reqCtx domain.RequestContext) (domain.HandlerResult, error) {
	resource := extractResource(text)
	risk := h.deps.Risk.Assess(resource)
	autoApproved := h.deps.Risk.QualifiesForAutoApproval(resource, text)

	item := &domain.WorkItem{
		ExternalKey:   generateItemKey(),
		Kind:          domain.WorkItemKindAccessRequest,
		RequesterID:   reqCtx.UserID,
		Title:         fmt.Sprintf("Access request: %s", resource),
		Description:   strings.TrimSpace(text),
		Category:      domain.CategoryAccess,
		Priority:      domain.PriorityMedium,
		Status:        domain.WorkItemStatusOpen,
		Resource:      resource,
		Justification: strings.TrimSpace(text),
		Risk:          risk,
		AutoApproved:  autoApproved,
	}
	if autoApproved {
		item.Status = domain.WorkItemStatusResolved
	}

	if err := h.deps.Items.Create(ctx, item); err != nil {
		return domain.HandlerResult{}, fmt.Errorf("create access request: %w", err)
	}

	h.deps.logger().Info("access request created",
		zap.String("work_item_id", item.ID),
		zap.String("resource", resource),
		zap.String("risk", string(risk)),
		zap.Bool("auto_approved", autoApproved))

	h.deps.publish(ctx, events.Event{
		Type:       events.EventWorkItemCreated,
		WorkItemID: item.ID,
		Actor:      events.UserActor(reqCtx.UserID),
		Payload: events.WorkItemCreatedPayload{
			Kind:     item.Kind,
			Category: item.Category,
			Priority: item.Priority,
			Title:    item.Title,
		},
	})
	if autoApproved {
		h.deps.publish(ctx, events.Event{
			Type:       events.EventAccessAutoApproved,
			WorkItemID: item.ID,
			Actor:      events.SystemActor(),
			Payload: events.AccessAutoApprovedPayload{
				Resource: resource,
				Risk:     risk,
			},
		})
	}

	return domain.HandlerResult{
		Handler: h.Name(),
		Kind:    domain.ResultKindAccess,
		Success: true,
		Payload: domain.AccessResultPayload{
			WorkItemID:   item.ID,
			Resource:     resource,
			Risk:         risk,
			AutoApproved: autoApproved,
		},
	}, nil
}

// purposeMarkers cut a captured resource at the start of a trailing purpose
// clause, so "Figma for my design work" yields "Figma".
var purposeMarkers = []string{" for ", " because ", " so ", " since ", " as ", " to "}

func extractResource(text string) string {
	match := resourcePattern.FindStringSubmatch(text)
	if match == nil {
		return "unspecified"
	}
	resource := strings.TrimSpace(match[1])
	lower := strings.ToLower(resource)
	cut := len(resource)
	for _, marker := range purposeMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	resource = strings.TrimSpace(resource[:cut])
	if resource == "" {
		return "unspecified"
	}
	return resource
}
