package rules

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// warningFraction places the warning threshold at 80% of the violation
// threshold, which keeps it strictly below for any positive duration.
const warningFraction = 0.8

// SLAPolicy maps each priority to its violation threshold.
type SLAPolicy struct {
	thresholds map[domain.Priority]time.Duration
}

// NewSLAPolicy validates that every priority has a positive threshold.
func NewSLAPolicy(thresholds map[domain.Priority]time.Duration) (SLAPolicy, error) {
	required := []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent}
	resolved := make(map[domain.Priority]time.Duration, len(required))
	for _, priority := range required {
		threshold, ok := thresholds[priority]
		if !ok || threshold <= 0 {
			return SLAPolicy{}, fmt.Errorf("sla policy: missing or non-positive threshold for priority %s", priority)
		}
		resolved[priority] = threshold
	}
	return SLAPolicy{thresholds: resolved}, nil
}

// ViolationThreshold returns the maximum age before escalation is due.
func (p SLAPolicy) ViolationThreshold(priority domain.Priority) time.Duration {
	return p.thresholds[priority]
}

// WarningThreshold returns the early-warning cutoff, always strictly below
// the violation threshold.
func (p SLAPolicy) WarningThreshold(priority domain.Priority) time.Duration {
	return time.Duration(float64(p.thresholds[priority]) * warningFraction)
}

// SweepResult reports the outcome of one SLA sweep.
type SweepResult struct {
	Escalated   []domain.WorkItem
	Approaching []domain.WorkItem
	Skipped     int
}

// MonitorSLA inspects open items against the policy and returns the items
// that crossed their violation threshold, mutated to their escalated form:
// EscalationLevel bumped from 0 to 1, EscalatedAt stamped, and priority
// raised one step only when it was medium. Status stays open.
//
// The EscalationLevel==0 guard makes the sweep idempotent: a second pass
// with no elapsed time escalates nothing. Malformed items (zero CreatedAt)
// are logged and skipped; they never abort the sweep.
func MonitorSLA(now time.Time, items []domain.WorkItem, policy SLAPolicy, logger *zap.Logger) SweepResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	var result SweepResult
	for _, item := range items {
		if !item.IsOpen() {
			continue
		}
		if item.CreatedAt.IsZero() {
			logger.Warn("skipping work item with missing created_at",
				zap.String("work_item_id", item.ID))
			result.Skipped++
			continue
		}
		if item.EscalationLevel != 0 {
			continue
		}

		age := now.Sub(item.CreatedAt)
		threshold := policy.ViolationThreshold(item.Priority)
		if threshold <= 0 {
			logger.Warn("skipping work item with unknown priority",
				zap.String("work_item_id", item.ID),
				zap.String("priority", string(item.Priority)))
			result.Skipped++
			continue
		}

		if age > threshold {
			escalatedAt := now
			item.EscalationLevel++
			item.EscalatedAt = &escalatedAt
			if item.Priority == domain.PriorityMedium {
				item.Priority = domain.PriorityHigh
			}
			result.Escalated = append(result.Escalated, item)
			continue
		}
		if age > policy.WarningThreshold(item.Priority) {
			result.Approaching = append(result.Approaching, item)
		}
	}
	return result
}
