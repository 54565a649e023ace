package domain

import "time"

// RequestContext carries caller metadata alongside free-form request text.
// Enrichment fields are populated by the execution coordinator before
// secondary handlers run and must be treated as read-only by handlers.
type RequestContext struct {
	UserID     string
	Role       string
	Department string
	Priority   string

	MultiHandler  bool
	PrimaryResult *HandlerResult
}

// ClassificationResult is the outcome of intent classification. It is
// created per call and never persisted.
type ClassificationResult struct {
	Intent     string
	Confidence float64
	Entity     string
	Timestamp  time.Time
}

// RankedCandidate is one scored handler considered during routing.
type RankedCandidate struct {
	Handler    string
	Confidence float64
	Reasoning  string
}

// RoutingDecision is the ordered handler selection for a request. Selected
// always holds at least one handler name.
type RoutingDecision struct {
	Candidates []RankedCandidate
	Selected   []string
	Confidence float64
	Fallback   bool
	Timestamp  time.Time
}

// ResultKind discriminates handler result payloads.
type ResultKind string

const (
	ResultKindAccess     ResultKind = "access"
	ResultKindTicket     ResultKind = "ticket"
	ResultKindReply      ResultKind = "reply"
	ResultKindEscalation ResultKind = "escalation"
)

// AccessResultPayload is produced by the access handler.
type AccessResultPayload struct {
	WorkItemID   string    `json:"work_item_id"`
	Resource     string    `json:"resource"`
	Risk         RiskLevel `json:"risk"`
	AutoApproved bool      `json:"auto_approved"`
}

// TicketResultPayload is produced by the hardware and software handlers.
type TicketResultPayload struct {
	WorkItemID string   `json:"work_item_id"`
	Category   Category `json:"category"`
	Priority   Priority `json:"priority"`
}

// ReplyResultPayload is produced by handlers that answer in text.
type ReplyResultPayload struct {
	Reply     string `json:"reply"`
	Generated bool   `json:"generated"`
}

// EscalationResultPayload is produced by the escalation handler.
type EscalationResultPayload struct {
	WorkItemIDs []string `json:"work_item_ids"`
}

// HandlerResult captures the outcome of a single handler invocation. Failures
// set Success=false and Err; they never abort sibling invocations.
type HandlerResult struct {
	Handler string
	Kind    ResultKind
	Success bool
	Err     string
	Elapsed time.Duration
	Payload any
}
