package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

func testPolicy(t *testing.T) SLAPolicy {
	t.Helper()
	policy, err := NewSLAPolicy(map[domain.Priority]time.Duration{
		domain.PriorityLow:    72 * time.Hour,
		domain.PriorityMedium: 24 * time.Hour,
		domain.PriorityHigh:   4 * time.Hour,
		domain.PriorityUrgent: time.Hour,
	})
	require.NoError(t, err)
	return policy
}

func openItem(id string, priority domain.Priority, age time.Duration, now time.Time) domain.WorkItem {
	return domain.WorkItem{
		ID:        id,
		Kind:      domain.WorkItemKindTicket,
		Priority:  priority,
		Status:    domain.WorkItemStatusOpen,
		CreatedAt: now.Add(-age),
	}
}

func TestMonitorSLAEscalatesViolatingItem(t *testing.T) {
	now := time.Now()
	policy := testPolicy(t)
	items := []domain.WorkItem{openItem("w1", domain.PriorityHigh, 5*time.Hour, now)}

	result := MonitorSLA(now, items, policy, nil)

	require.Len(t, result.Escalated, 1)
	escalated := result.Escalated[0]
	assert.Equal(t, 1, escalated.EscalationLevel)
	assert.Equal(t, domain.WorkItemStatusOpen, escalated.Status)
	require.NotNil(t, escalated.EscalatedAt)
	assert.Equal(t, now, *escalated.EscalatedAt)
	// high priority stays high; only medium is bumped
	assert.Equal(t, domain.PriorityHigh, escalated.Priority)
}

func TestMonitorSLAIdempotent(t *testing.T) {
	now := time.Now()
	policy := testPolicy(t)
	items := []domain.WorkItem{openItem("w1", domain.PriorityMedium, 30*time.Hour, now)}

	first := MonitorSLA(now, items, policy, nil)
	require.Len(t, first.Escalated, 1)

	// second sweep with no elapsed time over already-escalated state
	second := MonitorSLA(now, first.Escalated, policy, nil)
	assert.Empty(t, second.Escalated)
	assert.Equal(t, 1, first.Escalated[0].EscalationLevel)
}

func TestMonitorSLAPriorityBump(t *testing.T) {
	now := time.Now()
	policy := testPolicy(t)

	tests := []struct {
		before domain.Priority
		age    time.Duration
		after  domain.Priority
	}{
		{domain.PriorityLow, 80 * time.Hour, domain.PriorityLow},
		{domain.PriorityMedium, 30 * time.Hour, domain.PriorityHigh},
		{domain.PriorityHigh, 5 * time.Hour, domain.PriorityHigh},
		{domain.PriorityUrgent, 2 * time.Hour, domain.PriorityUrgent},
	}

	for _, tc := range tests {
		result := MonitorSLA(now, []domain.WorkItem{openItem("w", tc.before, tc.age, now)}, policy, nil)
		require.Len(t, result.Escalated, 1, "priority %s", tc.before)
		assert.Equal(t, tc.after, result.Escalated[0].Priority, "priority %s", tc.before)
	}
}

func TestMonitorSLASkipsMalformedItems(t *testing.T) {
	now := time.Now()
	policy := testPolicy(t)
	items := []domain.WorkItem{
		{ID: "bad", Status: domain.WorkItemStatusOpen, Priority: domain.PriorityHigh},
		openItem("good", domain.PriorityHigh, 5*time.Hour, now),
	}

	result := MonitorSLA(now, items, policy, nil)

	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Escalated, 1)
	assert.Equal(t, "good", result.Escalated[0].ID)
}

func TestMonitorSLAIgnoresNonOpenItems(t *testing.T) {
	now := time.Now()
	policy := testPolicy(t)
	resolved := openItem("w1", domain.PriorityHigh, 10*time.Hour, now)
	resolved.Status = domain.WorkItemStatusResolved
	closed := openItem("w2", domain.PriorityHigh, 10*time.Hour, now)
	closed.Status = domain.WorkItemStatusClosed

	result := MonitorSLA(now, []domain.WorkItem{resolved, closed}, policy, nil)

	assert.Empty(t, result.Escalated)
}

func TestMonitorSLAApproachingWindow(t *testing.T) {
	now := time.Now()
	policy := testPolicy(t)
	// high threshold is 4h, warning at 3h12m
	items := []domain.WorkItem{openItem("w1", domain.PriorityHigh, 3*time.Hour+30*time.Minute, now)}

	result := MonitorSLA(now, items, policy, nil)

	assert.Empty(t, result.Escalated)
	require.Len(t, result.Approaching, 1)
	assert.Equal(t, 0, result.Approaching[0].EscalationLevel)
}

func TestWarningThresholdStrictlyBelowViolation(t *testing.T) {
	policy := testPolicy(t)
	for _, priority := range []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent} {
		assert.Less(t, policy.WarningThreshold(priority), policy.ViolationThreshold(priority))
	}
}

func TestNewSLAPolicyRejectsMissingPriority(t *testing.T) {
	_, err := NewSLAPolicy(map[domain.Priority]time.Duration{
		domain.PriorityMedium: 24 * time.Hour,
	})
	assert.Error(t, err)
}
