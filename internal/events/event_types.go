package events

import (
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestRouted      EventType = "request_routed"
	EventWorkItemCreated    EventType = "work_item_created"
	EventWorkItemEscalated  EventType = "work_item_escalated"
	EventAccessAutoApproved EventType = "access_auto_approved"
	EventSLAWarning         EventType = "sla_warning"
)

// Actor encapsulates actor metadata for an event. Sweep-driven events carry
// a system actor.
type Actor struct {
	Type   domain.SubjectType `json:"type"`
	UserID *string            `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	WorkItemID string      `json:"work_item_id,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// RequestRoutedPayload payload.
type RequestRoutedPayload struct {
	Intent     string   `json:"intent"`
	Entity     string   `json:"entity,omitempty"`
	Selected   []string `json:"selected"`
	Confidence float64  `json:"confidence"`
	Fallback   bool     `json:"fallback"`
	Success    bool     `json:"success"`
}

// WorkItemCreatedPayload payload.
type WorkItemCreatedPayload struct {
	Kind     domain.WorkItemKind `json:"kind"`
	Category domain.Category     `json:"category,omitempty"`
	Priority domain.Priority     `json:"priority"`
	Title    string              `json:"title"`
}

// WorkItemEscalatedPayload payload.
type WorkItemEscalatedPayload struct {
	EscalationLevel int             `json:"escalation_level"`
	OldPriority     domain.Priority `json:"old_priority"`
	NewPriority     domain.Priority `json:"new_priority"`
	AgeSeconds      int64           `json:"age_seconds"`
}

// AccessAutoApprovedPayload payload.
type AccessAutoApprovedPayload struct {
	Resource string           `json:"resource"`
	Risk     domain.RiskLevel `json:"risk"`
}

// SLAWarningPayload payload.
type SLAWarningPayload struct {
	Priority   domain.Priority `json:"priority"`
	AgeSeconds int64           `json:"age_seconds"`
}

// SystemActor returns the actor used by sweep-driven automation.
func SystemActor() Actor {
	return Actor{Type: domain.SubjectTypeSystem}
}

// UserActor returns an end-user actor.
func UserActor(userID string) Actor {
	return Actor{Type: domain.SubjectTypeUser, UserID: &userID}
}
