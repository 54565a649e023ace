package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/routing"
	"github.com/spec-kit/helpdesk-triage/internal/service"
)

// TriageRequest is the inbound triage payload.
type TriageRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"`
}

// CandidateResponse mirrors one scored handler.
type CandidateResponse struct {
	Handler    string  `json:"handler"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// HandlerResultResponse mirrors one handler execution.
type HandlerResultResponse struct {
	Handler   string      `json:"handler"`
	Kind      string      `json:"kind"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TriageResponse is the full outcome of one triaged request.
type TriageResponse struct {
	Intent         string                  `json:"intent"`
	IntentScore    float64                 `json:"intent_score"`
	Entity         string                  `json:"entity,omitempty"`
	Candidates     []CandidateResponse     `json:"candidates"`
	Selected       []string                `json:"selected"`
	Confidence     float64                 `json:"confidence"`
	Fallback       bool                    `json:"fallback"`
	Results        []HandlerResultResponse `json:"results"`
	OverallSuccess bool                    `json:"overall_success"`
	ElapsedMS      int64                   `json:"elapsed_ms"`
}

// NewTriageResponse maps the service outcome.
func NewTriageResponse(outcome *service.TriageOutcome) TriageResponse {
	candidates := make([]CandidateResponse, 0, len(outcome.Decision.Candidates))
	for _, c := range outcome.Decision.Candidates {
		candidates = append(candidates, CandidateResponse{
			Handler:    c.Handler,
			Confidence: c.Confidence,
			Reasoning:  c.Reasoning,
		})
	}

	results := make([]HandlerResultResponse, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		results = append(results, HandlerResultResponse{
			Handler:   r.Handler,
			Kind:      string(r.Kind),
			Success:   r.Success,
			Error:     r.Err,
			ElapsedMS: r.Elapsed.Milliseconds(),
			Payload:   r.Payload,
		})
	}

	return TriageResponse{
		Intent:         outcome.Classification.Intent,
		IntentScore:    outcome.Classification.Confidence,
		Entity:         outcome.Classification.Entity,
		Candidates:     candidates,
		Selected:       outcome.Decision.Selected,
		Confidence:     outcome.Decision.Confidence,
		Fallback:       outcome.Decision.Fallback,
		Results:        results,
		OverallSuccess: outcome.OverallSuccess,
		ElapsedMS:      outcome.Elapsed.Milliseconds(),
	}
}

// AnalyticsEntryResponse mirrors one retained routing record.
type AnalyticsEntryResponse struct {
	Input     string    `json:"input"`
	Selected  []string  `json:"selected"`
	Fallback  bool      `json:"fallback"`
	Success   bool      `json:"success"`
	ElapsedMS int64     `json:"elapsed_ms"`
	At        time.Time `json:"at"`
}

// AnalyticsStatsResponse mirrors the aggregate view.
type AnalyticsStatsResponse struct {
	TotalRouted     int                `json:"total_routed"`
	MeanExecutionMS int64              `json:"mean_execution_ms"`
	HandlerUsage    map[string]int     `json:"handler_usage"`
	SuccessRate     float64            `json:"success_rate"`
	HandlerSuccess  map[string]float64 `json:"handler_success,omitempty"`
}

// NewAnalyticsEntries maps retained log entries.
func NewAnalyticsEntries(entries []routing.LogEntry) []AnalyticsEntryResponse {
	out := make([]AnalyticsEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AnalyticsEntryResponse{
			Input:     e.Input,
			Selected:  e.Decision.Selected,
			Fallback:  e.Decision.Fallback,
			Success:   e.Success,
			ElapsedMS: e.Elapsed.Milliseconds(),
			At:        e.At,
		})
	}
	return out
}

// WorkItemResponse mirrors a persisted work item.
type WorkItemResponse struct {
	ID              string     `json:"id"`
	ExternalKey     string     `json:"external_key"`
	Kind            string     `json:"kind"`
	RequesterID     string     `json:"requester_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category,omitempty"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	Resource        string     `json:"resource,omitempty"`
	Risk            string     `json:"risk,omitempty"`
	AutoApproved    bool       `json:"auto_approved"`
	EscalationLevel int        `json:"escalation_level"`
	EscalatedAt     *time.Time `json:"escalated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

// NewWorkItemResponse maps a domain work item.
func NewWorkItemResponse(item *domain.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:              item.ID,
		ExternalKey:     item.ExternalKey,
		Kind:            string(item.Kind),
		RequesterID:     item.RequesterID,
		Title:           item.Title,
		Description:     item.Description,
		Category:        string(item.Category),
		Priority:        string(item.Priority),
		Status:          string(item.Status),
		Resource:        item.Resource,
		Risk:            string(item.Risk),
		AutoApproved:    item.AutoApproved,
		EscalationLevel: item.EscalationLevel,
		EscalatedAt:     item.EscalatedAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		ClosedAt:        item.ClosedAt,
	}
}
