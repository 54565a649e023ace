package domain

import "time"

// WorkItemKind separates support tickets from access requests.
type WorkItemKind string

const (
	WorkItemKindTicket        WorkItemKind = "TICKET"
	WorkItemKindAccessRequest WorkItemKind = "ACCESS_REQUEST"
)

// WorkItemStatus enumerates lifecycle states for work items.
type WorkItemStatus string

const (
	WorkItemStatusOpen       WorkItemStatus = "OPEN"
	WorkItemStatusInProgress WorkItemStatus = "IN_PROGRESS"
	WorkItemStatusEscalated  WorkItemStatus = "ESCALATED"
	WorkItemStatusResolved   WorkItemStatus = "RESOLVED"
	WorkItemStatusClosed     WorkItemStatus = "CLOSED"
)

// Priority enumerates SLA urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Category enumerates automated ticket categories.
type Category string

const (
	CategoryHardware Category = "HARDWARE"
	CategoryNetwork  Category = "NETWORK"
	CategoryAccess   Category = "ACCESS"
	CategorySoftware Category = "SOFTWARE"
	CategoryGeneral  Category = "GENERAL"
)

// RiskLevel classifies the sensitivity of a requested resource.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// WorkItem is the aggregate for tickets and access requests created by the
// automation pipeline.
type WorkItem struct {
	ID              string
	ExternalKey     string
	Kind            WorkItemKind
	RequesterID     string
	Title           string
	Description     string
	Category        Category
	Priority        Priority
	Status          WorkItemStatus
	Resource        string
	Justification   string
	Risk            RiskLevel
	AutoApproved    bool
	EscalationLevel int
	EscalatedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

// IsOpen reports whether the item still counts toward SLA monitoring.
func (w *WorkItem) IsOpen() bool {
	return w.Status == WorkItemStatusOpen || w.Status == WorkItemStatusInProgress
}
